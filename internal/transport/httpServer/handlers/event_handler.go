// Package handlers maps HTTP requests onto the extraction, placement and
// chat services and shapes their results for the wire.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/feeds"

	"github.com/ajinkyagorad/fb-events-map/internal/ai"
	"github.com/ajinkyagorad/fb-events-map/internal/config"
	"github.com/ajinkyagorad/fb-events-map/internal/enrich"
	"github.com/ajinkyagorad/fb-events-map/internal/models/dto"
	"github.com/ajinkyagorad/fb-events-map/internal/orchestrator"
	"github.com/ajinkyagorad/fb-events-map/internal/utils"
	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/sl"
)

type EventHandler struct {
	logger    *slog.Logger
	extractor Extractor
	events    EventReader
	placer    Placer
	assistant Assistant // nil when no AI token is configured
	srcs      SourceFactory
	site      config.Site
	defSource config.Source
}

func NewEventHandler(
	logger *slog.Logger,
	extractor Extractor,
	events EventReader,
	placer Placer,
	assistant Assistant,
	srcs SourceFactory,
	site config.Site,
	defSource config.Source,
) *EventHandler {
	return &EventHandler{
		logger:    logger,
		extractor: extractor,
		events:    events,
		placer:    placer,
		assistant: assistant,
		srcs:      srcs,
		site:      site,
		defSource: defSource,
	}
}

// Extract runs one pass. The page comes from ?url=, ?file=, the request body,
// or the configured default source, in that order.
func (h *EventHandler) Extract(w http.ResponseWriter, r *http.Request) {
	op := "handlers.EventHandler.Extract()"
	log := h.logger.With(slog.String("op", op))

	doc, err := h.resolveDocument(r)
	if err != nil {
		log.Warn("no usable page source", sl.Err(err))
		utils.Err(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.extractor.Extract(r.Context(), doc)
	switch {
	case errors.Is(err, orchestrator.ErrExtractionInProgress):
		utils.Err(w, http.StatusConflict, "extraction already in progress")
		return
	case err != nil:
		log.Error("extraction pass failed", sl.Err(err))
		utils.Err(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	utils.Json(w, http.StatusOK, summary)
}

func (h *EventHandler) resolveDocument(r *http.Request) (*goquery.Document, error) {
	if u := r.URL.Query().Get("url"); u != "" {
		return h.srcs.FromURL(u).Fetch(r.Context())
	}
	if f := r.URL.Query().Get("file"); f != "" {
		return h.srcs.FromFile(f).Fetch(r.Context())
	}
	if r.Body != nil && r.ContentLength != 0 {
		return goquery.NewDocumentFromReader(r.Body)
	}
	switch {
	case h.defSource.File != "":
		return h.srcs.FromFile(h.defSource.File).Fetch(r.Context())
	case h.defSource.URL != "":
		return h.srcs.FromURL(h.defSource.URL).Fetch(r.Context())
	}
	return nil, errors.New("request carries no page and no default source is configured")
}

// Events serves the stored set; ?enriched=1 adds the derived browse facets.
func (h *EventHandler) Events(w http.ResponseWriter, r *http.Request) {
	op := "handlers.EventHandler.Events()"

	events, err := h.events.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to read events", slog.String("op", op), sl.Err(err))
		utils.Err(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	if r.URL.Query().Get("enriched") != "" {
		utils.Json(w, http.StatusOK, enrich.Enrich(events, time.Now()))
		return
	}
	utils.Json(w, http.StatusOK, events)
}

// Feed serves the stored set as RSS.
func (h *EventHandler) Feed(w http.ResponseWriter, r *http.Request) {
	op := "handlers.EventHandler.Feed()"

	events, err := h.events.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to read events", slog.String("op", op), sl.Err(err))
		utils.Err(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	feed := &feeds.Feed{
		Title:       h.site.Title,
		Link:        &feeds.Link{Href: h.site.Link},
		Description: h.site.Description,
		Created:     time.Now(),
	}
	for _, ev := range events {
		item := &feeds.Item{
			Id:          ev.ID,
			Title:       ev.Title,
			Link:        &feeds.Link{Href: ev.URL},
			Description: ev.Description,
		}
		if start, ok := ev.Start(); ok {
			item.Created = start
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		utils.Err(w, http.StatusInternalServerError, "feed rendering failed")
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}

// Map serves the placed projection of the stored set.
func (h *EventHandler) Map(w http.ResponseWriter, r *http.Request) {
	op := "handlers.EventHandler.Map()"

	events, err := h.events.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to read events", slog.String("op", op), sl.Err(err))
		utils.Err(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	utils.Json(w, http.StatusOK, h.placer.Place(r.Context(), events))
}

// Chat answers one question against the stored set.
func (h *EventHandler) Chat(w http.ResponseWriter, r *http.Request) {
	op := "handlers.EventHandler.Chat()"
	log := h.logger.With(slog.String("op", op))

	if h.assistant == nil {
		utils.Err(w, http.StatusServiceUnavailable, "chat is not configured")
		return
	}

	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		utils.Err(w, http.StatusBadRequest, "expected {\"question\": \"...\"}")
		return
	}

	events, err := h.events.Get(r.Context())
	if err != nil {
		log.Error("failed to read events", sl.Err(err))
		utils.Err(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	answer, err := h.assistant.Ask(r.Context(), req.Question, events)
	if err != nil {
		log.Error("assistant request failed", sl.Err(err))
		utils.Err(w, http.StatusBadGateway, "assistant unavailable")
		return
	}
	utils.Json(w, http.StatusOK, answer)
}

// Suggestions serves the canned chat prompts.
func (h *EventHandler) Suggestions(w http.ResponseWriter, _ *http.Request) {
	utils.Json(w, http.StatusOK, ai.QuickResponses())
}
