package sources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/geziyor/geziyor"
	"github.com/geziyor/geziyor/client"
)

// LiveSource fetches a feed page from its URL through the crawler engine.
// One fetch is one crawl of a single start URL; the parsed document of the
// first successful response is the result.
type LiveSource struct {
	logger    *slog.Logger
	url       string
	userAgent string
}

func NewLive(logger *slog.Logger, url, userAgent string) *LiveSource {
	return &LiveSource{logger: logger, url: url, userAgent: userAgent}
}

func (s *LiveSource) Fetch(ctx context.Context) (*goquery.Document, error) {
	op := "sources.LiveSource.Fetch()"
	log := s.logger.With(slog.String("op", op), slog.String("url", s.url))

	var doc *goquery.Document

	gez := geziyor.NewGeziyor(&geziyor.Options{
		StartURLs: []string{s.url},
		UserAgent: s.userAgent,
		ParseFunc: func(g *geziyor.Geziyor, r *client.Response) {
			if doc == nil {
				doc = r.HTMLDoc
			}
		},
		LogDisabled: true,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		gez.Start()
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	case <-done:
	}

	if doc == nil {
		return nil, fmt.Errorf("%s: no parseable response from %s", op, s.url)
	}
	log.Debug("page fetched")
	return doc, nil
}
