package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// FileSource parses a saved DOM snapshot. The usual workflow is saving the
// rendered feed page from the browser and pointing an extraction run at it.
type FileSource struct {
	logger *slog.Logger
	path   string
}

func NewFile(logger *slog.Logger, path string) *FileSource {
	return &FileSource{logger: logger, path: path}
}

func (s *FileSource) Fetch(ctx context.Context) (*goquery.Document, error) {
	op := "sources.FileSource.Fetch()"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Debug("snapshot loaded",
		slog.String("op", op),
		slog.String("path", s.path),
		slog.Int("bytes", len(data)),
	)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc, nil
}
