// Package geo places event records on the map widget: free-text locations
// are geocoded and projected into the widget's pixel rectangle, and
// everything that cannot be resolved falls back to a jittered grid so no
// record is ever dropped from the map.
package geo

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/sl"
)

// Geocoder resolves one free-text query to a coordinate. A nil coordinate
// with a nil error means the service had no match.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.Coordinate, error)
}

// Config is the placement geometry plus lookup policy. The zero value is not
// usable; DefaultConfig returns the Helsinki widget geometry.
type Config struct {
	North float64 `yaml:"north" env-default:"60.25"`
	South float64 `yaml:"south" env-default:"60.10"`
	East  float64 `yaml:"east" env-default:"25.15"`
	West  float64 `yaml:"west" env-default:"24.75"`

	Width   float64 `yaml:"width" env-default:"350"`
	Height  float64 `yaml:"height" env-default:"220"`
	OffsetX float64 `yaml:"offsetX" env-default:"20"`
	OffsetY float64 `yaml:"offsetY" env-default:"30"`
	MarginX float64 `yaml:"marginX" env-default:"10"`
	MarginY float64 `yaml:"marginY" env-default:"20"`

	BatchSize        int           `yaml:"batchSize" env-default:"3"`
	LookupTimeout    time.Duration `yaml:"lookupTimeout" env-default:"10s"`
	BreakerThreshold int           `yaml:"breakerThreshold" env-default:"3"`

	City    string `yaml:"city" env-default:"Helsinki"`
	Country string `yaml:"country" env-default:"Finland"`
}

func DefaultConfig() Config {
	return Config{
		North: 60.25, South: 60.10, East: 25.15, West: 24.75,
		Width: 350, Height: 220,
		OffsetX: 20, OffsetY: 30,
		MarginX: 10, MarginY: 20,
		BatchSize:        3,
		LookupTimeout:    10 * time.Second,
		BreakerThreshold: 3,
		City:             "Helsinki",
		Country:          "Finland",
	}
}

var (
	reTrailInterested = regexp.MustCompile(`(?i)\d+\s+interested.*$`)
	reTrailGoing      = regexp.MustCompile(`(?i)\d+\s+(?:going|went).*$`)
)

// Placer runs the geocode-then-project pass over a record set.
type Placer struct {
	logger   *slog.Logger
	geocoder Geocoder
	cfg      Config
	rand     func() float64 // uniform [0,1), injectable for deterministic grids
}

func NewPlacer(logger *slog.Logger, geocoder Geocoder, cfg Config, rand func() float64) *Placer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 3
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = 3
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 10 * time.Second
	}
	return &Placer{logger: logger, geocoder: geocoder, cfg: cfg, rand: rand}
}

// Place returns one PlacedEvent per input record, in input order. Records
// whose location geocodes land at their projected coordinate; everything
// else, including records with no location at all, lands on the fallback
// grid. After BreakerThreshold consecutive transport failures the remaining
// lookups are skipped and go straight to the grid.
func (p *Placer) Place(ctx context.Context, events []domain.EventRecord) []domain.PlacedEvent {
	op := "geo.Placer.Place()"
	log := p.logger.With(slog.String("op", op))

	placed := make([]domain.PlacedEvent, len(events))
	coords := make([]*domain.Coordinate, len(events))
	for i, ev := range events {
		placed[i].EventRecord = ev
	}

	br := &breaker{threshold: p.cfg.BreakerThreshold}

	for start := 0; start < len(events); start += p.cfg.BatchSize {
		end := min(start+p.cfg.BatchSize, len(events))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			if !events[i].Mappable() || br.open() {
				continue
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				lookupCtx, cancel := context.WithTimeout(ctx, p.cfg.LookupTimeout)
				defer cancel()

				coord, err := p.lookup(lookupCtx, events[i].Location)
				if err != nil {
					br.fail()
					log.Debug("lookup failed", slog.String("location", events[i].Location), sl.Err(err))
					return
				}
				br.reset()
				coords[i] = coord
			}(i)
		}
		wg.Wait()
	}

	if br.open() {
		log.Warn("geocoder unreachable, remaining events placed on grid")
	}

	var gridIdx []int
	for i := range placed {
		if coords[i] != nil {
			p.project(&placed[i], *coords[i])
		} else {
			gridIdx = append(gridIdx, i)
		}
	}
	p.grid(placed, gridIdx)

	log.Debug("placement finished",
		slog.Int("events", len(placed)),
		slog.Int("geocoded", len(placed)-len(gridIdx)),
	)
	return placed
}

// lookup tries a ladder of query variants from most to least specific and
// takes the first hit. A transport error on a variant moves on to the next;
// the error only surfaces when no variant produced a coordinate.
func (p *Placer) lookup(ctx context.Context, location string) (*domain.Coordinate, error) {
	clean := p.cleanQuery(location)
	main := strings.TrimSpace(strings.SplitN(clean, ",", 2)[0])

	variants := []string{
		clean + ", " + p.cfg.City + ", " + p.cfg.Country,
		main + ", " + p.cfg.City + ", " + p.cfg.Country,
		clean + ", " + p.cfg.Country,
		clean,
		main,
	}

	var lastErr error
	tried := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if v == "" || strings.HasPrefix(v, ",") {
			continue
		}
		if _, dup := tried[v]; dup {
			continue
		}
		tried[v] = struct{}{}

		coord, err := p.geocoder.Geocode(ctx, v)
		if err != nil {
			lastErr = err
			continue
		}
		if coord != nil {
			return coord, nil
		}
	}
	return nil, lastErr
}

// cleanQuery strips the artefacts that leak into location strings from the
// card text: trailing attendance counts and redundant city/country suffixes.
func (p *Placer) cleanQuery(location string) string {
	s := reTrailInterested.ReplaceAllString(location, "")
	s = reTrailGoing.ReplaceAllString(s, "")
	s = strings.TrimSuffix(strings.TrimSpace(s), ", "+p.cfg.Country)
	s = strings.TrimSuffix(strings.TrimSpace(s), ", "+p.cfg.City)
	return strings.TrimSpace(s)
}

// project maps a coordinate linearly into the widget rectangle and clamps it
// to the drawable area.
func (p *Placer) project(ev *domain.PlacedEvent, c domain.Coordinate) {
	cfg := p.cfg
	x := (c.Lng-cfg.West)/(cfg.East-cfg.West)*cfg.Width + cfg.OffsetX
	y := (cfg.North-c.Lat)/(cfg.North-cfg.South)*cfg.Height + cfg.OffsetY

	ev.Lat = c.Lat
	ev.Lng = c.Lng
	ev.MapX = clamp(x, cfg.MarginX, cfg.Width+cfg.MarginX)
	ev.MapY = clamp(y, cfg.MarginY, cfg.Height+cfg.MarginY)
	ev.Geocoded = true
}

// grid spreads the unresolved records over a near-square grid with jitter so
// markers do not stack. Jitter stays within the middle 60% of the cell, so
// markers never leave the rectangle.
func (p *Placer) grid(placed []domain.PlacedEvent, idx []int) {
	n := len(idx)
	if n == 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	cellW := p.cfg.Width / float64(cols)
	cellH := p.cfg.Height / float64(rows)

	for k, i := range idx {
		col := float64(k % cols)
		row := float64(k / cols)
		x := col*cellW + 0.2*cellW + p.rand()*0.6*cellW + p.cfg.OffsetX
		y := row*cellH + 0.2*cellH + p.rand()*0.6*cellH + p.cfg.OffsetY
		placed[i].MapX = clamp(x, p.cfg.MarginX, p.cfg.Width+p.cfg.MarginX)
		placed[i].MapY = clamp(y, p.cfg.MarginY, p.cfg.Height+p.cfg.MarginY)
		placed[i].Geocoded = false
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// breaker counts consecutive transport failures and opens permanently for
// the rest of the pass once the threshold is hit.
type breaker struct {
	mu        sync.Mutex
	threshold int
	fails     int
}

func (b *breaker) fail() {
	b.mu.Lock()
	b.fails++
	b.mu.Unlock()
}

func (b *breaker) reset() {
	b.mu.Lock()
	// An open breaker stays open for the rest of the pass even if an
	// in-flight lookup straggles in with a success.
	if b.fails < b.threshold {
		b.fails = 0
	}
	b.mu.Unlock()
}

func (b *breaker) open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fails >= b.threshold
}
