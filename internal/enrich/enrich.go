// Package enrich derives browse facets from canonical event records: a
// coarse event type, day buckets, venue and neighbourhood guesses, a
// popularity figure and a composite ranking score. Everything here is a pure
// projection; records are never modified or persisted.
package enrich

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/models/dto"
)

// typeRules map keyword hits to an event type. Tried in order, first rule
// with a hit wins; the Finnish variants matter as much as the English ones.
var typeRules = []struct {
	name     string
	keywords []string
}{
	{"dance", []string{"dance", "tanssi", "salsa", "bachata", "kizomba", "tango"}},
	{"music", []string{"music", "konsertti", "concert", "live", "dj ", "band", "gig"}},
	{"festival", []string{"festival", "festivaali", "fest "}},
	{"sports", []string{"yoga", "jooga", "run", "juoksu", "gym", "football", "sport"}},
	{"food", []string{"food", "ruoka", "brunch", "dinner", "wine", "beer", "olut"}},
	{"art", []string{"art", "taide", "exhibition", "näyttely", "museum", "museo"}},
	{"market", []string{"market", "markkinat", "kirppis", "flea"}},
	{"party", []string{"party", "bileet", "klubi", "club"}},
}

// neighbourhoods is the Helsinki-area district list probed against location
// strings.
var neighbourhoods = []string{
	"Kallio", "Töölö", "Punavuori", "Kamppi", "Sörnäinen", "Vallila",
	"Suvilahti", "Pasila", "Herttoniemi", "Lauttasaari", "Katajanokka",
	"Kruununhaka", "Espoo", "Vantaa",
}

var (
	reCancelled = regexp.MustCompile(`(?i)\b(?:peruttu|cancelled|canceled)\b`)
	reFree      = regexp.MustCompile(`(?i)\b(?:free|ilmainen|vapaa pääsy)\b`)
	rePrice     = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*(?:€|eur)`)
)

// Enrich projects the facets onto every record. The reference instant drives
// the day buckets and the time-fit component of the score.
func Enrich(events []domain.EventRecord, now time.Time) []dto.EnrichedEvent {
	out := make([]dto.EnrichedEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, enrichOne(ev, now))
	}
	return out
}

func enrichOne(ev domain.EventRecord, now time.Time) dto.EnrichedEvent {
	haystack := strings.ToLower(ev.Title + " " + ev.Description)

	e := dto.EnrichedEvent{
		EventRecord:   ev,
		Type:          eventType(haystack),
		DayBucket:     dayBucket(ev, now),
		Venue:         venue(ev.Location),
		Neighbourhood: neighbourhood(ev.Location),
		Popularity:    float64(ev.GoingCount) + 0.2*float64(ev.InterestedCount),
		PriceBucket:   priceBucket(haystack),
		Cancelled:     reCancelled.MatchString(haystack),
	}
	e.Tags = tags(e)
	e.Score = score(e, now)
	return e
}

func eventType(haystack string) string {
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.name
			}
		}
	}
	return "misc"
}

func dayBucket(ev domain.EventRecord, now time.Time) string {
	start, ok := ev.Start()
	if !ok {
		return "later"
	}
	if strings.EqualFold(ev.TimeText, "Happening now") || (!start.After(now) && sameDay(start, now)) {
		return "happening_now"
	}

	switch {
	case sameDay(start, now):
		if start.Hour() >= 18 {
			return "tonight"
		}
		return "today"
	case sameDay(start, now.AddDate(0, 0, 1)):
		return "tomorrow"
	case start.Before(now.AddDate(0, 0, 7)):
		return "this_week"
	default:
		return "later"
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// venue is the first comma-separated segment of the location guess.
func venue(location string) string {
	if location == "" {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
}

func neighbourhood(location string) string {
	lower := strings.ToLower(location)
	for _, n := range neighbourhoods {
		if strings.Contains(lower, strings.ToLower(n)) {
			return n
		}
	}
	return ""
}

func priceBucket(haystack string) string {
	if reFree.MatchString(haystack) {
		return "free"
	}
	m := rePrice.FindStringSubmatch(haystack)
	if m == nil {
		return "unknown"
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return "unknown"
	}
	switch {
	case v < 10:
		return "under_10"
	case v <= 20:
		return "10_to_20"
	default:
		return "over_20"
	}
}

func tags(e dto.EnrichedEvent) []string {
	t := []string{e.Type, e.DayBucket}
	if e.Neighbourhood != "" {
		t = append(t, strings.ToLower(e.Neighbourhood))
	}
	if e.PriceBucket == "free" {
		t = append(t, "free")
	}
	if e.Cancelled {
		t = append(t, "cancelled")
	}
	return t
}

// score ranks events for the default listing. Popularity dominates, then how
// soon the event starts, then completeness of the record.
func score(e dto.EnrichedEvent, now time.Time) float64 {
	pop := math.Min(1, e.Popularity/100)

	timeFit := 0.0
	if start, ok := e.Start(); ok {
		hours := start.Sub(now).Hours()
		switch {
		case hours < 0:
			timeFit = 0.2
		case hours <= 24:
			timeFit = 1
		case hours <= 24*7:
			timeFit = 1 - (hours-24)/(24*6)*0.7
		default:
			timeFit = 0.1
		}
	}

	hasLocation := 0.0
	if e.Location != "" {
		hasLocation = 1
	}
	hasTime := 0.0
	if e.StartTS != nil {
		hasTime = 1
	}
	richness := math.Min(1, float64(len(e.Description))/150)

	return 0.45*pop + 0.25*timeFit + 0.15*hasLocation + 0.10*hasTime + 0.05*richness
}
