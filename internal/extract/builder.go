package extract

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/timeparse"
)

// The time fragment is located inside the flattened card text by a fixed
// alternation tried in order. "Happening now" deliberately swallows the rest
// of the line; the label parser normalizes it back down.
var timeFragmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Happening now.*$`),
	regexp.MustCompile(`(?i)Today at\s+\d{1,2}(?::\d{2})?\s*[AP]M`),
	regexp.MustCompile(`(?i)(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun),\s+[A-Za-z]{3,}\s+\d{1,2}(?:.*?[AP]M)?`),
	regexp.MustCompile(`\b[A-Za-z]{3,}\s+\d{1,2}\b`),
}

// DefaultDescriptionLimit caps the stored description length when no limit
// is configured.
const DefaultDescriptionLimit = 150

// Builder assembles one canonical EventRecord out of the raw pieces a card
// source hands it.
type Builder struct {
	separator *Separator
	baseURL   string
	descLimit int
}

func NewBuilder(separator *Separator, baseURL string, descLimit int) *Builder {
	if descLimit <= 0 {
		descLimit = DefaultDescriptionLimit
	}
	return &Builder{separator: separator, baseURL: baseURL, descLimit: descLimit}
}

// Build normalizes a single card. It never fails: fields that cannot be
// recognized come back as zero values, and an unparseable time fragment
// leaves StartTS nil.
func (b *Builder) Build(cardText, rawTitle, id, url string, now time.Time) domain.EventRecord {
	text := collapse(cardText)
	title := collapse(rawTitle)

	timeText := locateTimeFragment(text)
	parsed := timeparse.Parse(timeText, now)
	date, clock := timeparse.SplitLabel(timeText)
	fields := b.separator.Separate(title, text, timeText)

	if url == "" {
		url = fmt.Sprintf("%s/events/%s", b.baseURL, id)
	}

	rec := domain.EventRecord{
		ID:              id,
		Title:           fields.CleanTitle,
		URL:             url,
		Date:            date,
		Time:            clock,
		TimeText:        timeText,
		Location:        fields.Location,
		InterestedCount: fields.InterestedCount,
		GoingCount:      fields.GoingCount,
		Description:     truncate(text, b.descLimit),
	}
	if parsed.Start != nil {
		ts := parsed.Start.UnixMilli()
		rec.StartTS = &ts
	}
	if parsed.Label != "" {
		rec.TimeText = parsed.Label
	}
	return rec
}

func locateTimeFragment(text string) string {
	for _, re := range timeFragmentPatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
