package extract

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
)

func ts(v int64) *int64 { return &v }

func TestProcessDedupFirstSeenWins(t *testing.T) {
	in := []domain.EventRecord{
		{ID: "123456", Title: "first"},
		{ID: "777777", Title: "other"},
		{ID: "123456", Title: "second"},
	}
	out := Process(in)
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	for _, r := range out {
		if r.ID == "123456" && r.Title != "first" {
			t.Errorf("duplicate id kept %q, want first occurrence", r.Title)
		}
	}
}

func TestProcessOrdersNullsLast(t *testing.T) {
	in := []domain.EventRecord{
		{ID: "1"},
		{ID: "2", StartTS: ts(100)},
		{ID: "3", StartTS: ts(50)},
	}
	out := Process(in)

	wantIDs := []string{"3", "2", "1"}
	for i, want := range wantIDs {
		if out[i].ID != want {
			t.Fatalf("order = [%s %s %s], want [3 2 1]", out[0].ID, out[1].ID, out[2].ID)
		}
	}
}

func TestProcessStableAmongUntimed(t *testing.T) {
	in := []domain.EventRecord{
		{ID: "a"},
		{ID: "b"},
		{ID: "c", StartTS: ts(5)},
		{ID: "d"},
	}
	out := Process(in)
	want := []string{"c", "a", "b", "d"}
	for i := range want {
		if out[i].ID != want[i] {
			t.Fatalf("order wrong at %d: got %s want %s", i, out[i].ID, want[i])
		}
	}
}

func TestPipelineRun(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := newTestBuilder(0)
	p := NewPipeline(log, b, FlattenedText)

	now := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.Local)
	out := p.Run(feedDoc(t), now)
	if len(out) != 2 {
		t.Fatalf("got %d events, want 2", len(out))
	}
	// Jun 15 sorts before Aug 4.
	if out[0].ID != "123456789" || out[1].ID != "987654321" {
		t.Errorf("order = [%s %s]", out[0].ID, out[1].ID)
	}
	if out[0].StartTS == nil || out[1].StartTS == nil {
		t.Errorf("expected both starts resolved")
	}
}
