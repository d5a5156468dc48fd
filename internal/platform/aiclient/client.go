// Package aiclient talks to the external inference service that analyzes
// chest X-ray and ECG uploads. Inference never runs in-process; this client
// is the only integration point.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ImageAnalysis is the response of the X-ray endpoint.
type ImageAnalysis struct {
	Prediction  string  `json:"prediction"`
	Confidence  float64 `json:"confidence"`
	Severity    string  `json:"severity"`
	Uncertainty float64 `json:"uncertainty"`
	RiskLevel   string  `json:"risk_level"`
	SymptomRisk string  `json:"symptom_risk"`
	FileURL     string  `json:"file_url"`
	HeatmapURL  string  `json:"heatmap_url"`
}

// ECGReport is the narrative block embedded in an ECG analysis.
type ECGReport struct {
	Description    string `json:"description"`
	RiskLevel      string `json:"risk_level"`
	Recommendation string `json:"recommendation"`
}

// ECGAnalysis is the response of the ECG endpoint.
type ECGAnalysis struct {
	Prediction string    `json:"prediction"`
	Confidence float64   `json:"confidence"`
	FileURL    string    `json:"file_url"`
	HeatmapURL string    `json:"heatmap_url"`
	Report     ECGReport `json:"report"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// AnalyzeImage submits an X-ray image, optionally with the patient's symptom
// text, and returns the model output.
func (c *Client) AnalyzeImage(ctx context.Context, filename string, file io.Reader, symptoms string) (*ImageAnalysis, error) {
	fields := map[string]string{}
	if strings.TrimSpace(symptoms) != "" {
		fields["symptoms"] = symptoms
	}
	var out ImageAnalysis
	if err := c.postMultipart(ctx, "/predict", filename, file, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeECG submits an ECG trace image and returns the model output with
// its embedded report.
func (c *Client) AnalyzeECG(ctx context.Context, filename string, file io.Reader) (*ECGAnalysis, error) {
	var out ECGAnalysis
	if err := c.postMultipart(ctx, "/predict_ecg", filename, file, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postMultipart(ctx context.Context, path, filename string, file io.Reader, fields map[string]string, out interface{}) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("building multipart body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analysis service: %s", errorDetail(resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding analysis response: %w", err)
	}
	return nil
}

// errorDetail pulls the service's human-readable detail field out of a
// failure response, so upload errors surface a usable reason instead of a
// bare status code.
func errorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Detail != "" {
			return payload.Detail
		}
	}
	return resp.Status
}
