package observations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/triage"
)

// -- Mock Repositories --

type mockVitalsRepo struct {
	entries []*VitalsEntry
}

func (m *mockVitalsRepo) Create(_ context.Context, v *VitalsEntry) error {
	v.ID = uuid.New()
	v.RecordedAt = time.Now()
	m.entries = append(m.entries, v)
	return nil
}

func (m *mockVitalsRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*VitalsEntry, int, error) {
	var result []*VitalsEntry
	for _, v := range m.entries {
		if v.PatientID == patientID {
			result = append(result, v)
		}
	}
	return result, len(result), nil
}

func (m *mockVitalsRepo) LatestByPatient(_ context.Context, patientID uuid.UUID) (*VitalsEntry, error) {
	var latest *VitalsEntry
	for _, v := range m.entries {
		if v.PatientID == patientID {
			latest = v
		}
	}
	if latest == nil {
		return nil, ErrNoEntries
	}
	return latest, nil
}

func (m *mockVitalsRepo) ListRecent(_ context.Context, limit, offset int) ([]*VitalsEntry, int, error) {
	return m.entries, len(m.entries), nil
}

type mockSymptomRepo struct {
	entries []*SymptomEntry
}

func (m *mockSymptomRepo) Create(_ context.Context, s *SymptomEntry) error {
	s.ID = uuid.New()
	s.RecordedAt = time.Now()
	m.entries = append(m.entries, s)
	return nil
}

func (m *mockSymptomRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*SymptomEntry, int, error) {
	var result []*SymptomEntry
	for _, s := range m.entries {
		if s.PatientID == patientID {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func (m *mockSymptomRepo) LatestByPatient(_ context.Context, patientID uuid.UUID) (*SymptomEntry, error) {
	var latest *SymptomEntry
	for _, s := range m.entries {
		if s.PatientID == patientID {
			latest = s
		}
	}
	if latest == nil {
		return nil, ErrNoEntries
	}
	return latest, nil
}

func (m *mockSymptomRepo) ListRecent(_ context.Context, limit, offset int) ([]*SymptomEntry, int, error) {
	return m.entries, len(m.entries), nil
}

func newTestService() (*Service, *mockVitalsRepo, *mockSymptomRepo) {
	vr := &mockVitalsRepo{}
	sr := &mockSymptomRepo{}
	return NewService(vr, sr, triage.DefaultRules()), vr, sr
}

// -- Tests --

func TestRecordVitals(t *testing.T) {
	svc, vr, _ := newTestService()
	ctx := context.Background()

	v := &VitalsEntry{
		PatientID:     uuid.New(),
		BloodPressure: "120/80",
		HeartRate:     "72",
		Temperature:   "98.6",
		Weight:        "150",
	}
	if err := svc.RecordVitals(ctx, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
	if len(vr.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(vr.entries))
	}
}

func TestRecordVitalsValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	patientID := uuid.New()

	tests := []struct {
		name  string
		entry *VitalsEntry
	}{
		{"missing patient", &VitalsEntry{BloodPressure: "120/80", HeartRate: "72", Temperature: "98.6", Weight: "150"}},
		{"missing blood pressure", &VitalsEntry{PatientID: patientID, HeartRate: "72", Temperature: "98.6", Weight: "150"}},
		{"missing heart rate", &VitalsEntry{PatientID: patientID, BloodPressure: "120/80", Temperature: "98.6", Weight: "150"}},
		{"missing temperature", &VitalsEntry{PatientID: patientID, BloodPressure: "120/80", HeartRate: "72", Weight: "150"}},
		{"missing weight", &VitalsEntry{PatientID: patientID, BloodPressure: "120/80", HeartRate: "72", Temperature: "98.6"}},
		{"whitespace only", &VitalsEntry{PatientID: patientID, BloodPressure: "  ", HeartRate: "72", Temperature: "98.6", Weight: "150"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.RecordVitals(ctx, tt.entry); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRecordVitalsAcceptsMalformedValues(t *testing.T) {
	// Non-numeric values are stored as typed; scoring coerces them to zero
	// later rather than rejecting the submission.
	svc, _, _ := newTestService()
	ctx := context.Background()

	v := &VitalsEntry{
		PatientID:     uuid.New(),
		BloodPressure: "high",
		HeartRate:     "fast",
		Temperature:   "warm",
		Weight:        "a lot",
	}
	if err := svc.RecordVitals(ctx, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.LatestVitals(ctx, v.PatientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Assessment.Score != 0 {
		t.Errorf("expected score 0 for malformed vitals, got %d", got.Assessment.Score)
	}
	if got.Assessment.Tier != triage.TierNormal {
		t.Errorf("expected NORMAL tier, got %s", got.Assessment.Tier)
	}
}

func TestRecordSymptomsValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.RecordSymptoms(ctx, &SymptomEntry{Details: "fever"}); err == nil {
		t.Error("expected error for missing patient_id")
	}
	if err := svc.RecordSymptoms(ctx, &SymptomEntry{PatientID: uuid.New(), Details: "   "}); err == nil {
		t.Error("expected error for blank details")
	}
}

func TestListVitalsByPatientAnnotates(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	patientID := uuid.New()

	entries := []*VitalsEntry{
		{PatientID: patientID, BloodPressure: "120/80", HeartRate: "72", Temperature: "98.6", Weight: "150"},
		{PatientID: patientID, BloodPressure: "185/95", HeartRate: "125", Temperature: "103.2", Weight: "150"},
	}
	for _, v := range entries {
		if err := svc.RecordVitals(ctx, v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Another patient's entry must not leak into the listing.
	other := &VitalsEntry{PatientID: uuid.New(), BloodPressure: "110/70", HeartRate: "60", Temperature: "97.9", Weight: "140"}
	if err := svc.RecordVitals(ctx, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, total, err := svc.ListVitalsByPatient(ctx, patientID, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d (total %d)", len(got), total)
	}
	if got[0].Assessment.Tier != triage.TierNormal {
		t.Errorf("expected first entry NORMAL, got %s", got[0].Assessment.Tier)
	}
	if got[1].Assessment.Tier != triage.TierHigh {
		t.Errorf("expected second entry HIGH, got %s", got[1].Assessment.Tier)
	}
}

func TestLatestSymptomsAnnotates(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	patientID := uuid.New()

	if err := svc.RecordSymptoms(ctx, &SymptomEntry{PatientID: patientID, Details: "mild cough"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.RecordSymptoms(ctx, &SymptomEntry{PatientID: patientID, Details: "sudden chest pain"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.LatestSymptoms(ctx, patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Details != "sudden chest pain" {
		t.Errorf("expected most recent entry, got %q", got.Details)
	}
	if got.Tier != triage.TierHigh {
		t.Errorf("expected HIGH tier, got %s", got.Tier)
	}
}

func TestLatestVitalsNoEntries(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.LatestVitals(context.Background(), uuid.New()); err != ErrNoEntries {
		t.Errorf("expected ErrNoEntries, got %v", err)
	}
}
