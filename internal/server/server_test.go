package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/convert2mp3/convert2mp3/internal/config"
	"github.com/convert2mp3/convert2mp3/internal/download"
	"github.com/convert2mp3/convert2mp3/internal/engine"
	"github.com/convert2mp3/convert2mp3/internal/model"
	"github.com/convert2mp3/convert2mp3/internal/strategy"
	"github.com/convert2mp3/convert2mp3/internal/tags"
)

type fakeExtractor struct {
	err    error
	result *engine.Result
}

func (f *fakeExtractor) Extract(ctx context.Context, cfg model.AttemptConfig, url string, onProgress func(engine.Progress)) (*engine.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type noopTagger struct{}

func (noopTagger) Apply(path string, set tags.Set) error { return nil }

func newTestServer(t *testing.T, ex engine.Extractor) *Server {
	t.Helper()
	cfg := &config.Config{
		HTTPBind:      "localhost",
		HTTPPort:      0,
		DownloadDir:   t.TempDir(),
		Quality:       model.Quality192,
		Speed:         model.SpeedBalanced,
		Format:        model.FormatAuto,
		CookieMode:    model.CookieNone,
		RatePerSecond: 100,
		RateBurst:     100,
	}
	orch := download.NewOrchestrator(ex, noopTagger{}, zerolog.Nop())
	svc := download.NewService(orch, strategy.DefaultClients, zerolog.Nop())
	return New(cfg, svc, "test", zerolog.Nop())
}

func postConvert(t *testing.T, srv *Server, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestConvertMissingURL(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})

	rec := postConvert(t, srv, map[string]any{"quality": "192"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["success"] != false {
		t.Errorf("Expected success=false, got %v", body["success"])
	}
}

func TestConvertInvalidURL(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})

	rec := postConvert(t, srv, map[string]any{"url": "https://example.com/notyoutube"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestStatusUnknownID(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})

	req := httptest.NewRequest(http.MethodGet, "/status/deadbeef", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestConvertAndPollToCompletion(t *testing.T) {
	ex := &fakeExtractor{result: &engine.Result{Items: []engine.Item{
		{Title: "Song", FilePath: "/tmp/Song.mp3"},
	}}}
	srv := newTestServer(t, ex)

	rec := postConvert(t, srv, map[string]any{
		"url":     "https://www.youtube.com/watch?v=abc123",
		"quality": "320",
		"artist":  "Artist",
		"album":   "Album",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var started struct {
		Success    bool   `json:"success"`
		DownloadID string `json:"download_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !started.Success || started.DownloadID == "" {
		t.Fatalf("Expected a download id, got %+v", started)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("download did not complete in time")
		}

		req := httptest.NewRequest(http.MethodGet, "/status/"+started.DownloadID, nil)
		poll := httptest.NewRecorder()
		srv.Handler().ServeHTTP(poll, req)

		if poll.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", poll.Code)
		}
		var status statusResponse
		if err := json.Unmarshal(poll.Body.Bytes(), &status); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if status.Status == string(model.StatusCompleted) {
			if status.Progress != 100 {
				t.Errorf("Expected progress 100, got %v", status.Progress)
			}
			if status.Filename != "/tmp/Song.mp3" {
				t.Errorf("Expected filename, got %q", status.Filename)
			}
			return
		}
		if status.Status == string(model.StatusError) {
			t.Fatalf("Unexpected error status: %s", status.Message)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestConvertFailureSurfacesError(t *testing.T) {
	ex := &fakeExtractor{err: errors.New("Requested format is not available")}
	srv := newTestServer(t, ex)

	rec := postConvert(t, srv, map[string]any{"url": "https://youtu.be/abc123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var started struct {
		DownloadID string `json:"download_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("download did not fail in time")
		}

		req := httptest.NewRequest(http.MethodGet, "/status/"+started.DownloadID, nil)
		poll := httptest.NewRecorder()
		srv.Handler().ServeHTTP(poll, req)

		var status statusResponse
		if err := json.Unmarshal(poll.Body.Bytes(), &status); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if status.Status == string(model.StatusError) {
			if status.Error == "" {
				t.Error("Expected error detail in status")
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})

	req := httptest.NewRequest(http.MethodOptions, "/convert", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS origin header")
	}
}
