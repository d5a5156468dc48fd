package records

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

const recordCols = `id, patient_id, patient_name, kind, status, file_name, file_url, heatmap_url,
	ai_prediction, ai_confidence, ai_severity, ai_uncertainty, ai_risk_level, symptom_risk,
	ecg_description, ecg_risk_level, ecg_recommendation,
	reviewer_id, reviewer_note, agree_with_ai, uploaded_at, reviewed_at`

func (r *repoPG) scanRecord(row pgx.Row) (*MedicalRecord, error) {
	var m MedicalRecord
	err := row.Scan(&m.ID, &m.PatientID, &m.PatientName, &m.Kind, &m.Status,
		&m.FileName, &m.FileURL, &m.HeatmapURL,
		&m.AIPrediction, &m.AIConfidence, &m.AISeverity, &m.AIUncertainty, &m.AIRiskLevel, &m.SymptomRisk,
		&m.ECGDescription, &m.ECGRiskLevel, &m.ECGRecommendation,
		&m.ReviewerID, &m.ReviewerNote, &m.AgreeWithAI, &m.UploadedAt, &m.ReviewedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	rec.ID = uuid.New()
	if rec.Status == "" {
		rec.Status = StatusPendingReview
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_records (id, patient_id, patient_name, kind, status, file_name, file_url, heatmap_url,
			ai_prediction, ai_confidence, ai_severity, ai_uncertainty, ai_risk_level, symptom_risk,
			ecg_description, ecg_risk_level, ecg_recommendation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING uploaded_at`,
		rec.ID, rec.PatientID, rec.PatientName, rec.Kind, rec.Status, rec.FileName, rec.FileURL, rec.HeatmapURL,
		rec.AIPrediction, rec.AIConfidence, rec.AISeverity, rec.AIUncertainty, rec.AIRiskLevel, rec.SymptomRisk,
		rec.ECGDescription, rec.ECGRiskLevel, rec.ECGRecommendation).Scan(&rec.UploadedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	m, err := r.scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM medical_records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repoPG) ListVisible(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_records
		WHERE reviewer_id IS NULL OR reviewer_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+` FROM medical_records
		WHERE reviewer_id IS NULL OR reviewer_id = $1
		ORDER BY uploaded_at DESC LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicalRecord
	for rows.Next() {
		m, err := r.scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+` FROM medical_records
		WHERE patient_id = $1 ORDER BY uploaded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicalRecord
	for rows.Next() {
		m, err := r.scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

// Finalize claims and reviews in a single guarded UPDATE so two doctors
// racing on the same record cannot both win: the guard only matches while
// the record is pending and unclaimed, or claimed by this same doctor.
func (r *repoPG) Finalize(ctx context.Context, id, doctorID uuid.UUID, review Review) (*MedicalRecord, error) {
	m, err := r.scanRecord(r.conn(ctx).QueryRow(ctx, `
		UPDATE medical_records
		SET status = $3, reviewer_id = $2, reviewer_note = $4, agree_with_ai = $5,
			reviewed_at = COALESCE(reviewed_at, NOW())
		WHERE id = $1
		  AND ((status = $6 AND reviewer_id IS NULL) OR reviewer_id = $2)
		RETURNING `+recordCols,
		id, doctorID, StatusReviewed, review.Note, review.AgreeWithAI, StatusPendingReview))
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a lost claim race from a missing record.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repoPG) DeletePending(ctx context.Context, id, patientID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_records
		WHERE id = $1 AND patient_id = $2 AND status = $3`, id, patientID, StatusPendingReview)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrNotDeletable
	}
	return nil
}
