// Package review builds the single-screen summary a doctor works from when
// reviewing a record, and owns the finalize endpoint. Building a summary
// never mutates the record.
package review

import (
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/observations"
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/records"
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/triage"
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/platform/aiclient"
)

// Analysis is the normalized model-output view shown to the reviewer,
// regardless of record kind.
type Analysis struct {
	Prediction  string             `json:"prediction"`
	Confidence  float64            `json:"confidence"`
	Severity    string             `json:"severity"`
	Uncertainty float64            `json:"uncertainty"`
	RiskLevel   string             `json:"risk_level"`
	SymptomRisk string             `json:"symptom_risk,omitempty"`
	HeatmapURL  string             `json:"heatmap_url,omitempty"`
	Report      *aiclient.ECGReport `json:"report,omitempty"`
}

// Summary is everything the review screen needs in one response.
type Summary struct {
	Record   *records.MedicalRecord         `json:"record"`
	Analysis *Analysis                      `json:"analysis,omitempty"`
	Vitals   *observations.AssessedVitals   `json:"vitals,omitempty"`
	Symptoms *observations.AssessedSymptoms `json:"symptoms,omitempty"`
	// OverallTier is the more urgent of the vitals and symptom tiers.
	OverallTier triage.Tier `json:"overall_tier"`
}

// ECG summaries derive their display fields from the embedded prediction
// instead of re-running inference.
const (
	ecgSeverityNormal = "Normal"
	ecgSeverityReview = "Requires Review"
	ecgRiskLow        = "Low"
	ecgRiskModerate   = "Moderate"
	ecgSymptomRisk    = "Cardiac"
)

func ecgAnalysis(rec *records.MedicalRecord) *Analysis {
	if rec.AIPrediction == nil {
		return nil
	}
	a := &Analysis{
		Prediction:  *rec.AIPrediction,
		Severity:    ecgSeverityReview,
		RiskLevel:   ecgRiskModerate,
		SymptomRisk: ecgSymptomRisk,
	}
	if rec.AIConfidence != nil {
		a.Confidence = *rec.AIConfidence
		a.Uncertainty = 100 - *rec.AIConfidence
	}
	if a.Prediction == ecgSeverityNormal {
		a.Severity = ecgSeverityNormal
		a.RiskLevel = ecgRiskLow
	}
	if rec.HeatmapURL != nil {
		a.HeatmapURL = *rec.HeatmapURL
	}
	if rec.ECGDescription != nil || rec.ECGRiskLevel != nil || rec.ECGRecommendation != nil {
		a.Report = &aiclient.ECGReport{
			Description:    deref(rec.ECGDescription),
			RiskLevel:      deref(rec.ECGRiskLevel),
			Recommendation: deref(rec.ECGRecommendation),
		}
	}
	return a
}

func storedXrayAnalysis(rec *records.MedicalRecord) *Analysis {
	if rec.AIPrediction == nil {
		return nil
	}
	a := &Analysis{
		Prediction:  *rec.AIPrediction,
		Severity:    deref(rec.AISeverity),
		RiskLevel:   deref(rec.AIRiskLevel),
		SymptomRisk: deref(rec.SymptomRisk),
	}
	if rec.AIConfidence != nil {
		a.Confidence = *rec.AIConfidence
	}
	if rec.AIUncertainty != nil {
		a.Uncertainty = *rec.AIUncertainty
	}
	if rec.HeatmapURL != nil {
		a.HeatmapURL = *rec.HeatmapURL
	}
	return a
}

func liveXrayAnalysis(res *aiclient.ImageAnalysis) *Analysis {
	return &Analysis{
		Prediction:  res.Prediction,
		Confidence:  res.Confidence,
		Severity:    res.Severity,
		Uncertainty: res.Uncertainty,
		RiskLevel:   res.RiskLevel,
		SymptomRisk: res.SymptomRisk,
		HeatmapURL:  res.HeatmapURL,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
