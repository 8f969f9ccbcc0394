// Package extract implements the card extraction pipeline: card discovery in
// a rendered feed document, per-card field separation and record assembly,
// then deduplication and chronological ordering of the full set.
package extract

import (
	"log/slog"
	"slices"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
)

// Pipeline turns a rendered feed document into the canonical record set.
type Pipeline struct {
	logger  *slog.Logger
	builder *Builder
	source  TextSource
}

func NewPipeline(logger *slog.Logger, builder *Builder, source TextSource) *Pipeline {
	return &Pipeline{logger: logger, builder: builder, source: source}
}

// Run extracts every card on the page and returns the deduplicated,
// chronologically sorted records.
func (p *Pipeline) Run(doc *goquery.Document, now time.Time) []domain.EventRecord {
	op := "extract.Pipeline.Run()"
	log := p.logger.With(slog.String("op", op))

	cards := CollectCards(doc, p.source)
	records := make([]domain.EventRecord, 0, len(cards))
	for _, c := range cards {
		records = append(records, p.builder.Build(c.Text, c.RawTitle, c.ID, c.URL, now))
	}

	out := Process(records)
	log.Debug("extraction pass finished",
		slog.Int("cards", len(cards)),
		slog.Int("events", len(out)),
	)
	return out
}

// Process deduplicates by id, first occurrence wins, then orders the set
// chronologically. Records without a resolved start keep their scan order at
// the tail.
func Process(records []domain.EventRecord) []domain.EventRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.EventRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	slices.SortStableFunc(out, domain.CompareByStart)
	return out
}
