package aiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAnalyzeImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		if got := r.FormValue("symptoms"); got != "chest pain" {
			t.Errorf("symptoms = %q, want %q", got, "chest pain")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"prediction": "PNEUMONIA",
			"confidence": 91.4,
			"severity": "Moderate",
			"uncertainty": 8.6,
			"risk_level": "Moderate",
			"symptom_risk": "High",
			"file_url": "https://cdn.example.com/scan.png",
			"heatmap_url": "https://cdn.example.com/heatmap.png"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	got, err := c.AnalyzeImage(context.Background(), "scan.png", strings.NewReader("fake-image-bytes"), "chest pain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Prediction != "PNEUMONIA" {
		t.Errorf("prediction = %q", got.Prediction)
	}
	if got.Confidence != 91.4 {
		t.Errorf("confidence = %v", got.Confidence)
	}
	if got.HeatmapURL == "" {
		t.Error("heatmap_url not decoded")
	}
}

func TestAnalyzeImage_NoSymptomsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		if _, ok := r.MultipartForm.Value["symptoms"]; ok {
			t.Error("symptoms field should be omitted when empty")
		}
		w.Write([]byte(`{"prediction":"NORMAL","confidence":97.2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.AnalyzeImage(context.Background(), "scan.png", strings.NewReader("img"), "   "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeECG(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict_ecg" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"prediction": "Atrial Fibrillation",
			"confidence": 88.1,
			"heatmap_url": "https://cdn.example.com/ecg-heatmap.png",
			"report": {
				"description": "Irregularly irregular rhythm without distinct P waves.",
				"risk_level": "Moderate",
				"recommendation": "Cardiology follow-up within one week."
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	got, err := c.AnalyzeECG(context.Background(), "trace.png", strings.NewReader("ecg"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Report.Recommendation == "" {
		t.Error("report not decoded")
	}
	if got.Prediction != "Atrial Fibrillation" {
		t.Errorf("prediction = %q", got.Prediction)
	}
}

func TestErrorDetailSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"file must be a PNG or JPEG image"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.AnalyzeImage(context.Background(), "notes.txt", strings.NewReader("text"), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "file must be a PNG or JPEG image") {
		t.Errorf("error should carry the service detail, got %q", err.Error())
	}
}

func TestErrorWithoutDetailFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.AnalyzeECG(context.Background(), "trace.png", strings.NewReader("ecg"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should carry the status, got %q", err.Error())
	}
}
