package domain

import "time"

// EventRecord is one scraped listing in canonical form. Records are created
// fresh on every extraction pass and are read-only afterwards; a new pass
// fully replaces the persisted set.
type EventRecord struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	TimeText        string `json:"time_text"`
	StartTS         *int64 `json:"start_ts"` // epoch milliseconds, nil when no time could be resolved
	Location        string `json:"location"`
	InterestedCount int    `json:"interested_count"`
	GoingCount      int    `json:"going_count"`
	Description     string `json:"description"`
}

// Start returns the resolved start instant, if any.
func (e EventRecord) Start() (time.Time, bool) {
	if e.StartTS == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*e.StartTS), true
}

// Mappable reports whether the record carries a location guess and is
// therefore a candidate for geocoded map placement.
func (e EventRecord) Mappable() bool {
	return e.Location != ""
}

// Coordinate is a geographic point returned by the geocoder.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlacedEvent is an EventRecord augmented with render-time map placement.
// Ephemeral: recomputed per render, never persisted.
type PlacedEvent struct {
	EventRecord
	Lat      float64 `json:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty"`
	MapX     float64 `json:"mapX"`
	MapY     float64 `json:"mapY"`
	Geocoded bool    `json:"geocoded"`
}

// CompareByStart is the canonical chronological ordering over records:
// records without a resolved start sort after every record with one.
// Equal-order pairs are left where they are, so callers must use a stable
// sort to preserve scan order among untimed records.
func CompareByStart(a, b EventRecord) int {
	switch {
	case a.StartTS == nil && b.StartTS == nil:
		return 0
	case a.StartTS == nil:
		return 1
	case b.StartTS == nil:
		return -1
	case *a.StartTS < *b.StartTS:
		return -1
	case *a.StartTS > *b.StartTS:
		return 1
	default:
		return 0
	}
}
