// Package orchestrator runs one extraction pass end to end: page document in,
// persisted canonical event set out. Passes are strictly serialized; a
// request arriving while a pass is running is rejected, not queued, so two
// passes can never interleave their writes.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/models/dto"
	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/sl"
)

// ErrExtractionInProgress rejects a pass requested while another is running.
var ErrExtractionInProgress = errors.New("extraction already in progress")

// Pipeline turns a parsed page into the canonical record set.
type Pipeline interface {
	Run(doc *goquery.Document, now time.Time) []domain.EventRecord
}

// Saver persists a finished pass.
type Saver interface {
	Set(ctx context.Context, events []domain.EventRecord) error
}

// Notifier is told about completed passes. Notification failures never fail
// the pass.
type Notifier interface {
	PassCompleted(ctx context.Context, summary dto.ExtractSummary, top []domain.EventRecord) error
}

type Orchestrator struct {
	logger   *slog.Logger
	pipeline Pipeline
	saver    Saver
	notifier Notifier // nil when notifications are not configured

	busy atomic.Bool
}

func New(logger *slog.Logger, pipeline Pipeline, saver Saver, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		logger:   logger,
		pipeline: pipeline,
		saver:    saver,
		notifier: notifier,
	}
}

// Extract runs one pass over the given document. Finding zero events is a
// normal outcome; failing to persist what was found is an error, and the
// returned summary says so via Stored.
func (o *Orchestrator) Extract(ctx context.Context, doc *goquery.Document) (dto.ExtractSummary, error) {
	op := "orchestrator.Orchestrator.Extract()"

	if !o.busy.CompareAndSwap(false, true) {
		return dto.ExtractSummary{}, ErrExtractionInProgress
	}
	defer o.busy.Store(false)

	summary := dto.ExtractSummary{RequestID: uuid.NewString()}
	log := o.logger.With(
		slog.String("op", op),
		slog.String("request_id", summary.RequestID),
	)

	events := o.pipeline.Run(doc, time.Now())
	summary.Count = len(events)
	for _, ev := range events {
		if ev.Mappable() {
			summary.Mappable++
		}
	}

	if err := o.saver.Set(ctx, events); err != nil {
		log.Error("failed to persist extracted events", sl.Err(err))
		return summary, fmt.Errorf("%s: %w", op, err)
	}
	summary.Stored = true

	log.Info("extraction pass completed",
		slog.Int("events", summary.Count),
		slog.Int("mappable", summary.Mappable),
	)

	if o.notifier != nil {
		top := events
		if len(top) > 3 {
			top = top[:3]
		}
		if err := o.notifier.PassCompleted(ctx, summary, top); err != nil {
			log.Warn("pass notification failed", sl.Err(err))
		}
	}

	return summary, nil
}
