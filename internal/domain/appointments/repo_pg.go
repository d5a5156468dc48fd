package appointments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, patient_id, patient_name, patient_email, patient_mobile, reason,
	requested_date, status, doctor_id, scheduled_time, requested_at, scheduled_at`

func (r *repoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.PatientEmail, &a.PatientMobile,
		&a.Reason, &a.RequestedDate, &a.Status, &a.DoctorID, &a.ScheduledTime,
		&a.RequestedAt, &a.ScheduledAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusPending
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, patient_name, patient_email, patient_mobile,
			reason, requested_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING requested_at`,
		a.ID, a.PatientID, a.PatientName, a.PatientEmail, a.PatientMobile,
		a.Reason, a.RequestedDate, a.Status).Scan(&a.RequestedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := r.scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments
		WHERE status = $1 OR doctor_id = $2`, StatusPending, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointments
		WHERE status = $1 OR doctor_id = $2
		ORDER BY (status = $1) DESC, requested_at DESC
		LIMIT $3 OFFSET $4`, StatusPending, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointments
		WHERE patient_id = $1 ORDER BY requested_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

// Schedule is a single guarded UPDATE so two doctors confirming the same
// request cannot both win. The guard also matches when this doctor already
// owns the appointment, which is how reschedule works.
func (r *repoPG) Schedule(ctx context.Context, id, doctorID uuid.UUID, scheduledTime string) (*Appointment, error) {
	a, err := r.scanAppointment(r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments
		SET status = $3, doctor_id = $2, scheduled_time = $4,
			scheduled_at = COALESCE(scheduled_at, NOW())
		WHERE id = $1 AND (status = $5 OR doctor_id = $2)
		RETURNING `+apptCols,
		id, doctorID, StatusScheduled, scheduledTime, StatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAppointmentClaimed
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
