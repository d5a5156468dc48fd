package observations

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

// =========== Vitals Repository ===========

type vitalsRepoPG struct{ pool *pgxpool.Pool }

func NewVitalsRepoPG(pool *pgxpool.Pool) VitalsRepository { return &vitalsRepoPG{pool: pool} }

func (r *vitalsRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const vitalsCols = `id, patient_id, blood_pressure, heart_rate, temperature, weight, recorded_at`

func (r *vitalsRepoPG) scanVitals(row pgx.Row) (*VitalsEntry, error) {
	var v VitalsEntry
	err := row.Scan(&v.ID, &v.PatientID, &v.BloodPressure, &v.HeartRate,
		&v.Temperature, &v.Weight, &v.RecordedAt)
	return &v, err
}

func (r *vitalsRepoPG) Create(ctx context.Context, v *VitalsEntry) error {
	v.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO vitals_entries (id, patient_id, blood_pressure, heart_rate, temperature, weight)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING recorded_at`,
		v.ID, v.PatientID, v.BloodPressure, v.HeartRate, v.Temperature, v.Weight).Scan(&v.RecordedAt)
}

func (r *vitalsRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalsEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM vitals_entries WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+vitalsCols+` FROM vitals_entries
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*VitalsEntry
	for rows.Next() {
		v, err := r.scanVitals(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, nil
}

func (r *vitalsRepoPG) LatestByPatient(ctx context.Context, patientID uuid.UUID) (*VitalsEntry, error) {
	v, err := r.scanVitals(r.conn(ctx).QueryRow(ctx, `SELECT `+vitalsCols+` FROM vitals_entries
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT 1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoEntries
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vitalsRepoPG) ListRecent(ctx context.Context, limit, offset int) ([]*VitalsEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM vitals_entries`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+vitalsCols+` FROM vitals_entries
		ORDER BY recorded_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*VitalsEntry
	for rows.Next() {
		v, err := r.scanVitals(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, nil
}

// =========== Symptom Repository ===========

type symptomRepoPG struct{ pool *pgxpool.Pool }

func NewSymptomRepoPG(pool *pgxpool.Pool) SymptomRepository { return &symptomRepoPG{pool: pool} }

func (r *symptomRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const symptomCols = `id, patient_id, details, recorded_at`

func (r *symptomRepoPG) scanSymptom(row pgx.Row) (*SymptomEntry, error) {
	var s SymptomEntry
	err := row.Scan(&s.ID, &s.PatientID, &s.Details, &s.RecordedAt)
	return &s, err
}

func (r *symptomRepoPG) Create(ctx context.Context, s *SymptomEntry) error {
	s.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO symptom_entries (id, patient_id, details)
		VALUES ($1,$2,$3)
		RETURNING recorded_at`,
		s.ID, s.PatientID, s.Details).Scan(&s.RecordedAt)
}

func (r *symptomRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*SymptomEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM symptom_entries WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+symptomCols+` FROM symptom_entries
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*SymptomEntry
	for rows.Next() {
		s, err := r.scanSymptom(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *symptomRepoPG) LatestByPatient(ctx context.Context, patientID uuid.UUID) (*SymptomEntry, error) {
	s, err := r.scanSymptom(r.conn(ctx).QueryRow(ctx, `SELECT `+symptomCols+` FROM symptom_entries
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT 1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoEntries
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *symptomRepoPG) ListRecent(ctx context.Context, limit, offset int) ([]*SymptomEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM symptom_entries`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+symptomCols+` FROM symptom_entries
		ORDER BY recorded_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*SymptomEntry
	for rows.Next() {
		s, err := r.scanSymptom(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}
