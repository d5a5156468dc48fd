// Package records manages uploaded diagnostic records (chest X-rays and
// ECGs) and the review assignment rules around them: unclaimed records are
// visible to every doctor, finalizing a review claims the record, and a
// claimed record disappears from other doctors' worklists.
package records

import (
	"time"

	"github.com/google/uuid"
)

// Record kinds.
const (
	KindXray = "XRAY"
	KindECG  = "ECG"
)

// Record statuses. REVIEWED is terminal.
const (
	StatusPendingReview = "PENDING_REVIEW"
	StatusReviewed      = "REVIEWED"
)

// MedicalRecord maps to the medical_records table. The AI fields are filled
// once at upload time and never recomputed.
type MedicalRecord struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	Kind        string    `db:"kind" json:"kind"`
	Status      string    `db:"status" json:"status"`
	FileName    string    `db:"file_name" json:"file_name"`
	FileURL     string    `db:"file_url" json:"file_url"`
	HeatmapURL  *string   `db:"heatmap_url" json:"heatmap_url,omitempty"`

	AIPrediction  *string  `db:"ai_prediction" json:"ai_prediction,omitempty"`
	AIConfidence  *float64 `db:"ai_confidence" json:"ai_confidence,omitempty"`
	AISeverity    *string  `db:"ai_severity" json:"ai_severity,omitempty"`
	AIUncertainty *float64 `db:"ai_uncertainty" json:"ai_uncertainty,omitempty"`
	AIRiskLevel   *string  `db:"ai_risk_level" json:"ai_risk_level,omitempty"`
	SymptomRisk   *string  `db:"symptom_risk" json:"symptom_risk,omitempty"`

	// ECG report, embedded at upload time for ECG records only.
	ECGDescription    *string `db:"ecg_description" json:"ecg_description,omitempty"`
	ECGRiskLevel      *string `db:"ecg_risk_level" json:"ecg_risk_level,omitempty"`
	ECGRecommendation *string `db:"ecg_recommendation" json:"ecg_recommendation,omitempty"`

	ReviewerID   *uuid.UUID `db:"reviewer_id" json:"reviewer_id,omitempty"`
	ReviewerNote *string    `db:"reviewer_note" json:"reviewer_note,omitempty"`
	AgreeWithAI  *bool      `db:"agree_with_ai" json:"agree_with_ai,omitempty"`

	UploadedAt time.Time  `db:"uploaded_at" json:"uploaded_at"`
	ReviewedAt *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// VisibleTo reports whether the record appears in the given doctor's
// worklist: unclaimed records are visible to everyone, claimed records only
// to the doctor who claimed them.
func (r *MedicalRecord) VisibleTo(doctorID uuid.UUID) bool {
	return r.ReviewerID == nil || *r.ReviewerID == doctorID
}

// Review carries the doctor's decision submitted at finalize time.
type Review struct {
	Note        string `json:"note"`
	AgreeWithAI *bool  `json:"agree_with_ai"`
}
