package observations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/triage"
)

type Service struct {
	vitals   VitalsRepository
	symptoms SymptomRepository
	rules    *triage.RuleTable
}

func NewService(vitals VitalsRepository, symptoms SymptomRepository, rules *triage.RuleTable) *Service {
	return &Service{vitals: vitals, symptoms: symptoms, rules: rules}
}

// RecordVitals appends a new vitals entry. All four fields must be present;
// the values themselves stay free-text and are scored later.
func (s *Service) RecordVitals(ctx context.Context, v *VitalsEntry) error {
	if v.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(v.BloodPressure) == "" {
		return fmt.Errorf("blood_pressure is required")
	}
	if strings.TrimSpace(v.HeartRate) == "" {
		return fmt.Errorf("heart_rate is required")
	}
	if strings.TrimSpace(v.Temperature) == "" {
		return fmt.Errorf("temperature is required")
	}
	if strings.TrimSpace(v.Weight) == "" {
		return fmt.Errorf("weight is required")
	}
	return s.vitals.Create(ctx, v)
}

// RecordSymptoms appends a new symptom report.
func (s *Service) RecordSymptoms(ctx context.Context, e *SymptomEntry) error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(e.Details) == "" {
		return fmt.Errorf("details is required")
	}
	return s.symptoms.Create(ctx, e)
}

func (s *Service) ListVitalsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*AssessedVitals, int, error) {
	items, total, err := s.vitals.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return s.assessVitals(items), total, nil
}

func (s *Service) ListSymptomsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*AssessedSymptoms, int, error) {
	items, total, err := s.symptoms.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return s.assessSymptoms(items), total, nil
}

// ListRecentVitals is the doctor-side queue across all patients.
func (s *Service) ListRecentVitals(ctx context.Context, limit, offset int) ([]*AssessedVitals, int, error) {
	items, total, err := s.vitals.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return s.assessVitals(items), total, nil
}

func (s *Service) ListRecentSymptoms(ctx context.Context, limit, offset int) ([]*AssessedSymptoms, int, error) {
	items, total, err := s.symptoms.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return s.assessSymptoms(items), total, nil
}

// LatestVitals returns the most recent entry for a patient, or ErrNoEntries.
func (s *Service) LatestVitals(ctx context.Context, patientID uuid.UUID) (*AssessedVitals, error) {
	v, err := s.vitals.LatestByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return &AssessedVitals{VitalsEntry: v, Assessment: triage.ClassifyVitals(v.Reading())}, nil
}

// LatestSymptoms returns the most recent report for a patient, or ErrNoEntries.
func (s *Service) LatestSymptoms(ctx context.Context, patientID uuid.UUID) (*AssessedSymptoms, error) {
	e, err := s.symptoms.LatestByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return &AssessedSymptoms{SymptomEntry: e, Tier: triage.ClassifySymptoms(e.Details, s.rules)}, nil
}

func (s *Service) assessVitals(items []*VitalsEntry) []*AssessedVitals {
	out := make([]*AssessedVitals, 0, len(items))
	for _, v := range items {
		out = append(out, &AssessedVitals{VitalsEntry: v, Assessment: triage.ClassifyVitals(v.Reading())})
	}
	return out
}

func (s *Service) assessSymptoms(items []*SymptomEntry) []*AssessedSymptoms {
	out := make([]*AssessedSymptoms, 0, len(items))
	for _, e := range items {
		out = append(out, &AssessedSymptoms{SymptomEntry: e, Tier: triage.ClassifySymptoms(e.Details, s.rules)})
	}
	return out
}
