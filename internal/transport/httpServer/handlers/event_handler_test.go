package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/ajinkyagorad/fb-events-map/internal/config"
	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/models/dto"
	"github.com/ajinkyagorad/fb-events-map/internal/orchestrator"
	"github.com/ajinkyagorad/fb-events-map/internal/scraper/sources"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubExtractor struct {
	summary dto.ExtractSummary
	err     error
}

func (s *stubExtractor) Extract(_ context.Context, _ *goquery.Document) (dto.ExtractSummary, error) {
	return s.summary, s.err
}

type stubReader struct {
	events []domain.EventRecord
	err    error
}

func (s *stubReader) Get(_ context.Context) ([]domain.EventRecord, error) {
	return s.events, s.err
}

type stubPlacer struct{}

func (stubPlacer) Place(_ context.Context, events []domain.EventRecord) []domain.PlacedEvent {
	out := make([]domain.PlacedEvent, len(events))
	for i, ev := range events {
		out[i].EventRecord = ev
	}
	return out
}

type stubAssistant struct {
	answer dto.ChatResponse
	err    error
	asked  string
}

func (s *stubAssistant) Ask(_ context.Context, q string, _ []domain.EventRecord) (dto.ChatResponse, error) {
	s.asked = q
	return s.answer, s.err
}

func newHandler(ex Extractor, rd EventReader, as Assistant) *EventHandler {
	return NewEventHandler(
		discard(), ex, rd, stubPlacer{}, as,
		sources.NewFactory(discard(), "test-agent"),
		config.Site{Title: "t", Link: "http://x", Description: "d"},
		config.Source{},
	)
}

func TestExtractFromBody(t *testing.T) {
	ex := &stubExtractor{summary: dto.ExtractSummary{RequestID: "r1", Count: 2, Mappable: 1, Stored: true}}
	h := newHandler(ex, &stubReader{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract",
		strings.NewReader(`<html><a href="/events/123456789/">x</a></html>`))
	w := httptest.NewRecorder()
	h.Extract(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got dto.ExtractSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 2 || !got.Stored {
		t.Errorf("summary = %+v", got)
	}
}

func TestExtractBusyIsConflict(t *testing.T) {
	h := newHandler(&stubExtractor{err: orchestrator.ErrExtractionInProgress}, &stubReader{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader("<html></html>"))
	w := httptest.NewRecorder()
	h.Extract(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestExtractWithoutSourceIsBadRequest(t *testing.T) {
	h := newHandler(&stubExtractor{}, &stubReader{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", nil)
	w := httptest.NewRecorder()
	h.Extract(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEvents(t *testing.T) {
	events := []domain.EventRecord{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}
	h := newHandler(&stubExtractor{}, &stubReader{events: events}, nil)

	w := httptest.NewRecorder()
	h.Events(w, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []domain.EventRecord
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d events", len(got))
	}
}

func TestEventsEnriched(t *testing.T) {
	h := newHandler(&stubExtractor{}, &stubReader{events: []domain.EventRecord{{ID: "1", Title: "Salsa night"}}}, nil)

	w := httptest.NewRecorder()
	h.Events(w, httptest.NewRequest(http.MethodGet, "/api/v1/events?enriched=1", nil))

	var got []dto.EnrichedEvent
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got[0].Type != "dance" {
		t.Errorf("Type = %q", got[0].Type)
	}
}

func TestEventsStorageFailure(t *testing.T) {
	h := newHandler(&stubExtractor{}, &stubReader{err: errors.New("broken")}, nil)

	w := httptest.NewRecorder()
	h.Events(w, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestFeed(t *testing.T) {
	h := newHandler(&stubExtractor{}, &stubReader{events: []domain.EventRecord{
		{ID: "1", Title: "Summer Festival", URL: "http://x/1"},
	}}, nil)

	w := httptest.NewRecorder()
	h.Feed(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/feed", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "rss") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Summer Festival") {
		t.Error("feed missing item title")
	}
}

func TestMap(t *testing.T) {
	h := newHandler(&stubExtractor{}, &stubReader{events: []domain.EventRecord{{ID: "1"}}}, nil)

	w := httptest.NewRecorder()
	h.Map(w, httptest.NewRequest(http.MethodGet, "/api/v1/map", nil))

	var got []domain.PlacedEvent
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("placed = %+v", got)
	}
}

func TestChat(t *testing.T) {
	as := &stubAssistant{answer: dto.ChatResponse{Type: "answer", Message: "hi"}}
	h := newHandler(&stubExtractor{}, &stubReader{}, as)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"question":"what tonight?"}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if as.asked != "what tonight?" {
		t.Errorf("asked = %q", as.asked)
	}
}

func TestChatUnconfigured(t *testing.T) {
	h := newHandler(&stubExtractor{}, &stubReader{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"question":"x"}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestChatEmptyQuestion(t *testing.T) {
	h := newHandler(&stubExtractor{}, &stubReader{}, &stubAssistant{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
