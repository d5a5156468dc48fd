package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/observations"
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/records"
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/triage"
)

// FileFetcher retrieves a stored upload so it can be re-submitted for
// analysis. The default implementation downloads from the record's file URL.
type FileFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type httpFetcher struct{ client *http.Client }

// NewHTTPFetcher returns a FileFetcher backed by a plain HTTP client.
func NewHTTPFetcher(timeout time.Duration) FileFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching stored file: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Aggregator composes the record, the patient's latest observations, and
// the model output into one review summary.
type Aggregator struct {
	records *records.Service
	obs     *observations.Service
	ai      records.Analyzer
	fetch   FileFetcher
	logger  zerolog.Logger
}

func NewAggregator(recSvc *records.Service, obsSvc *observations.Service, ai records.Analyzer, fetch FileFetcher, logger zerolog.Logger) *Aggregator {
	return &Aggregator{records: recSvc, obs: obsSvc, ai: ai, fetch: fetch, logger: logger}
}

// Summarize builds the review summary for a record. It is strictly
// read-only: an X-ray that predates stored analysis is re-analyzed for
// display, but the result is never written back.
func (a *Aggregator) Summarize(ctx context.Context, recordID, doctorID uuid.UUID) (*Summary, error) {
	rec, err := a.records.GetForDoctor(ctx, recordID, doctorID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Record: rec}

	vitals, err := a.obs.LatestVitals(ctx, rec.PatientID)
	if err != nil && !errors.Is(err, observations.ErrNoEntries) {
		return nil, err
	}
	sum.Vitals = vitals

	symptoms, err := a.obs.LatestSymptoms(ctx, rec.PatientID)
	if err != nil && !errors.Is(err, observations.ErrNoEntries) {
		return nil, err
	}
	sum.Symptoms = symptoms

	vitalsTier := triage.TierNormal
	if vitals != nil {
		vitalsTier = vitals.Assessment.Tier
	}
	symptomTier := triage.TierNormal
	if symptoms != nil {
		symptomTier = symptoms.Tier
	}
	sum.OverallTier = triage.MaxTier(vitalsTier, symptomTier)

	switch rec.Kind {
	case records.KindECG:
		sum.Analysis = ecgAnalysis(rec)
	case records.KindXray:
		sum.Analysis = storedXrayAnalysis(rec)
		if sum.Analysis == nil {
			sum.Analysis = a.analyzeStoredXray(ctx, rec, symptoms)
		}
	}
	return sum, nil
}

// analyzeStoredXray re-runs inference for legacy records uploaded before
// analysis-at-upload existed. Failures degrade to a summary without model
// output rather than failing the whole request.
func (a *Aggregator) analyzeStoredXray(ctx context.Context, rec *records.MedicalRecord, symptoms *observations.AssessedSymptoms) *Analysis {
	if rec.FileURL == "" {
		return nil
	}
	body, err := a.fetch.Fetch(ctx, rec.FileURL)
	if err != nil {
		a.logger.Warn().Err(err).Str("record_id", rec.ID.String()).Msg("could not fetch stored file for analysis")
		return nil
	}
	defer body.Close()

	symptomText := ""
	if symptoms != nil {
		symptomText = symptoms.Details
	}
	res, err := a.ai.AnalyzeImage(ctx, rec.FileName, body, symptomText)
	if err != nil {
		a.logger.Warn().Err(err).Str("record_id", rec.ID.String()).Msg("on-demand analysis failed")
		return nil
	}
	return liveXrayAnalysis(res)
}

// Finalize records the doctor's decision, claiming the record atomically.
func (a *Aggregator) Finalize(ctx context.Context, recordID, doctorID uuid.UUID, rev records.Review) (*records.MedicalRecord, error) {
	return a.records.Finalize(ctx, recordID, doctorID, rev)
}
