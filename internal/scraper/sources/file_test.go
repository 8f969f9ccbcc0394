package sources

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.html")
	html := `<html><body><a href="/events/123456789/">Summer Party</a></body></html>`
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	doc, err := NewFile(log, path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if n := doc.Find(`a[href*="/events/"]`).Length(); n != 1 {
		t.Errorf("found %d event anchors, want 1", n)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewFile(log, "/does/not/exist.html").Fetch(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}
