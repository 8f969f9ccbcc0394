// Package sources yields rendered feed documents for the extraction
// pipeline. A document can come from a saved DOM snapshot on disk, a live
// URL, or straight from a request body; the pipeline does not care which.
package sources

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Source produces one parsed feed document per fetch.
type Source interface {
	Fetch(ctx context.Context) (*goquery.Document, error)
}
