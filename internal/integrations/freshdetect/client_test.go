package freshdetect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pasarin-app/backend/internal/config"
)

func testClient(serverURL string) *Client {
	cfg := &config.Config{}
	cfg.Services.FreshDetectURL = serverURL
	return NewClient(cfg)
}

func TestDetectTranslatesLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("missing image form file: %v", err)
		} else {
			file.Close()
			if header.Filename != "catch.jpg" {
				t.Errorf("unexpected filename: %q", header.Filename)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"detections": [
				{"class": "okon", "confidence": 0.92, "bbox": {"x1": 10, "y1": 20, "x2": 110, "y2": 220}},
				{"class": "unknown_species", "confidence": 0.41, "bbox": {"x1": 0, "y1": 0, "x2": 5, "y2": 5}}
			]
		}`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Detect(context.Background(), "catch.jpg", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalDetections != 2 {
		t.Fatalf("expected 2 detections, got %d", result.TotalDetections)
	}
	if result.Detections[0].Class != "Ikan Bass" {
		t.Errorf("expected translated class Ikan Bass, got %q", result.Detections[0].Class)
	}
	// Unknown labels pass through untranslated
	if result.Detections[1].Class != "unknown_species" {
		t.Errorf("expected passthrough class, got %q", result.Detections[1].Class)
	}
	if result.Detections[0].BBox.X2 != 110 {
		t.Errorf("unexpected bbox: %+v", result.Detections[0].BBox)
	}
}

func TestDetectUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model not loaded"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Detect(context.Background(), "catch.jpg", strings.NewReader("x")); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestDetectMissingURL(t *testing.T) {
	cfg := &config.Config{}
	if _, err := NewClient(cfg).Detect(context.Background(), "catch.jpg", strings.NewReader("x")); err == nil {
		t.Fatal("expected error when service url is missing")
	}
}
