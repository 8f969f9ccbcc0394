package handlers

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/models/dto"
	"github.com/ajinkyagorad/fb-events-map/internal/scraper/sources"
)

// Extractor runs one extraction pass over a parsed page.
type Extractor interface {
	Extract(ctx context.Context, doc *goquery.Document) (dto.ExtractSummary, error)
}

// EventReader reads the stored canonical set.
type EventReader interface {
	Get(ctx context.Context) ([]domain.EventRecord, error)
}

// Placer produces the map projection of a record set.
type Placer interface {
	Place(ctx context.Context, events []domain.EventRecord) []domain.PlacedEvent
}

// Assistant answers a question against the stored events.
type Assistant interface {
	Ask(ctx context.Context, question string, events []domain.EventRecord) (dto.ChatResponse, error)
}

// SourceFactory builds page sources for extraction requests.
type SourceFactory interface {
	FromURL(url string) sources.Source
	FromFile(path string) sources.Source
}
