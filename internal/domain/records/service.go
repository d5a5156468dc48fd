package records

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/platform/aiclient"
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/platform/metrics"
)

// Analyzer is the slice of the inference client the service needs.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, filename string, file io.Reader, symptoms string) (*aiclient.ImageAnalysis, error)
	AnalyzeECG(ctx context.Context, filename string, file io.Reader) (*aiclient.ECGAnalysis, error)
}

type Service struct {
	repo   Repository
	ai     Analyzer
	logger zerolog.Logger
}

func NewService(repo Repository, ai Analyzer, logger zerolog.Logger) *Service {
	return &Service{repo: repo, ai: ai, logger: logger}
}

// UploadXray streams an X-ray image through the analysis service and stores
// the record with the model output embedded. The record starts unclaimed and
// pending review.
func (s *Service) UploadXray(ctx context.Context, patientID uuid.UUID, patientName, fileName string, file io.Reader, symptoms string) (*MedicalRecord, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("file name is required")
	}

	start := time.Now()
	analysis, err := s.ai.AnalyzeImage(ctx, fileName, file, symptoms)
	metrics.InferenceRequest("predict", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("analyzing x-ray: %w", err)
	}

	rec := &MedicalRecord{
		PatientID:     patientID,
		PatientName:   patientName,
		Kind:          KindXray,
		Status:        StatusPendingReview,
		FileName:      fileName,
		FileURL:       analysis.FileURL,
		HeatmapURL:    optStr(analysis.HeatmapURL),
		AIPrediction:  optStr(analysis.Prediction),
		AIConfidence:  &analysis.Confidence,
		AISeverity:    optStr(analysis.Severity),
		AIUncertainty: &analysis.Uncertainty,
		AIRiskLevel:   optStr(analysis.RiskLevel),
		SymptomRisk:   optStr(analysis.SymptomRisk),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	metrics.RecordUploaded(KindXray)
	return rec, nil
}

// UploadECG streams an ECG trace through the analysis service. The narrative
// report comes back from the model and is embedded at upload time; reads
// never re-run inference for ECG records.
func (s *Service) UploadECG(ctx context.Context, patientID uuid.UUID, patientName, fileName string, file io.Reader) (*MedicalRecord, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("file name is required")
	}

	start := time.Now()
	analysis, err := s.ai.AnalyzeECG(ctx, fileName, file)
	metrics.InferenceRequest("predict_ecg", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("analyzing ecg: %w", err)
	}

	rec := &MedicalRecord{
		PatientID:         patientID,
		PatientName:       patientName,
		Kind:              KindECG,
		Status:            StatusPendingReview,
		FileName:          fileName,
		FileURL:           analysis.FileURL,
		HeatmapURL:        optStr(analysis.HeatmapURL),
		AIPrediction:      optStr(analysis.Prediction),
		AIConfidence:      &analysis.Confidence,
		ECGDescription:    optStr(analysis.Report.Description),
		ECGRiskLevel:      optStr(analysis.Report.RiskLevel),
		ECGRecommendation: optStr(analysis.Report.Recommendation),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	metrics.RecordUploaded(KindECG)
	return rec, nil
}

// GetForDoctor looks a record up by ID. Direct lookup deliberately ignores
// worklist visibility so a doctor can pull up any record a colleague shares
// the ID of; such accesses are audit-logged.
func (s *Service) GetForDoctor(ctx context.Context, id, doctorID uuid.UUID) (*MedicalRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.VisibleTo(doctorID) {
		s.logger.Info().
			Str("record_id", rec.ID.String()).
			Str("doctor_id", doctorID.String()).
			Str("reviewer_id", rec.ReviewerID.String()).
			Msg("record accessed by direct id lookup outside worklist")
	}
	return rec, nil
}

// Worklist returns the records visible to the doctor, newest first.
func (s *Service) Worklist(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.repo.ListVisible(ctx, doctorID, limit, offset)
}

func (s *Service) PatientHistory(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Finalize claims the record for the doctor and marks it reviewed in one
// atomic step. Losing the claim race returns ErrAlreadyReviewed.
func (s *Service) Finalize(ctx context.Context, id, doctorID uuid.UUID, review Review) (*MedicalRecord, error) {
	if doctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required")
	}
	rec, err := s.repo.Finalize(ctx, id, doctorID, review)
	if err != nil {
		if err == ErrAlreadyReviewed {
			metrics.ReviewConflict()
		}
		return nil, err
	}
	metrics.ReviewFinalized(rec.Kind)
	return rec, nil
}

// DeletePending removes a patient's own record while it still awaits review.
func (s *Service) DeletePending(ctx context.Context, id, patientID uuid.UUID) error {
	return s.repo.DeletePending(ctx, id, patientID)
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
