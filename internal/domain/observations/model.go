// Package observations stores patient-submitted vitals and symptom reports.
// Vitals entries are append-only: once written they are never updated or
// deleted, so the clinical history stays trustworthy.
package observations

import (
	"time"

	"github.com/google/uuid"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/triage"
)

// VitalsEntry maps to the vitals_entries table. Values are kept as the
// patient typed them; interpretation happens in the triage classifier.
type VitalsEntry struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	BloodPressure string    `db:"blood_pressure" json:"blood_pressure"`
	HeartRate     string    `db:"heart_rate" json:"heart_rate"`
	Temperature   string    `db:"temperature" json:"temperature"`
	Weight        string    `db:"weight" json:"weight"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
}

// Reading converts the entry into classifier input.
func (v *VitalsEntry) Reading() triage.VitalsReading {
	return triage.VitalsReading{
		BloodPressure: v.BloodPressure,
		HeartRate:     v.HeartRate,
		Temperature:   v.Temperature,
	}
}

// SymptomEntry maps to the symptom_entries table.
type SymptomEntry struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Details    string    `db:"details" json:"details"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

// AssessedVitals pairs an entry with its triage assessment for the doctor
// dashboard.
type AssessedVitals struct {
	*VitalsEntry
	Assessment triage.VitalsAssessment `json:"assessment"`
}

// AssessedSymptoms pairs a symptom report with its keyword tier.
type AssessedSymptoms struct {
	*SymptomEntry
	Tier triage.Tier `json:"tier"`
}
