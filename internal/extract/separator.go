package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Profile carries the locale-specific pieces of the separation heuristics:
// the street suffixes and letter set used by the address patterns, the
// city/country used by geocoding query variants, and the UI boilerplate
// phrases stripped from card text. The shipped default is the
// Finnish/Helsinki set the heuristics were tuned against.
type Profile struct {
	Letters        string   `yaml:"letters" env-default:"A-Za-zäöåÄÖÅ"`
	StreetSuffixes []string `yaml:"streetSuffixes"`
	City           string   `yaml:"city" env-default:"Helsinki"`
	Country        string   `yaml:"country" env-default:"Finland"`
	CountryCode    string   `yaml:"countryCode" env-default:"fi"`
	Boilerplate    []string `yaml:"boilerplate"`
}

// DefaultProfile returns the Helsinki profile.
func DefaultProfile() Profile {
	return Profile{
		Letters:        "A-Za-zäöåÄÖÅ",
		StreetSuffixes: []string{"katu", "tie", "väylä", "polku", "puistikko"},
		City:           "Helsinki",
		Country:        "Finland",
		CountryCode:    "fi",
		Boilerplate:    []string{"View on Facebook", "Show on Map", "Interested", "Share"},
	}
}

// withDefaults fills zero-valued fields so a partial config section still
// yields working patterns.
func (p Profile) withDefaults() Profile {
	def := DefaultProfile()
	if p.Letters == "" {
		p.Letters = def.Letters
	}
	if len(p.StreetSuffixes) == 0 {
		p.StreetSuffixes = def.StreetSuffixes
	}
	if p.City == "" {
		p.City = def.City
	}
	if p.Country == "" {
		p.Country = def.Country
	}
	if p.CountryCode == "" {
		p.CountryCode = def.CountryCode
	}
	if len(p.Boilerplate) == 0 {
		p.Boilerplate = def.Boilerplate
	}
	return p
}

var (
	reSpace         = regexp.MustCompile(`\s+`)
	reInterested    = regexp.MustCompile(`(?i)(\d+)\s+interested`)
	reGoing         = regexp.MustCompile(`(?i)(\d+)\s+(?:going|went)`)
	reInterestedAny = regexp.MustCompile(`(?i)\d+\s+interested`)
	reGoingAny      = regexp.MustCompile(`(?i)\d+\s+(?:going|went)`)
	reWentAny       = regexp.MustCompile(`(?i)\d+\s+went`)
)

// Fields is the output of one separation pass over a card.
type Fields struct {
	CleanTitle      string
	Location        string
	InterestedCount int
	GoingCount      int
}

// Separator isolates title, location and attendance counts from the raw
// title and card text of one listing. The source markup carries no semantic
// tags distinguishing these fields, so separation works by elimination:
// strip every other field's text out of the card text and pattern-match the
// remainder as the location. The removal order is load-bearing; reordering
// the steps changes results on real cards.
type Separator struct {
	profile          Profile
	locationPatterns []*regexp.Regexp
	boilerplate      []*regexp.Regexp
}

func NewSeparator(profile Profile) *Separator {
	p := profile.withDefaults()
	letters := p.Letters

	// Tried in order, first match longer than 3 chars wins: full street
	// address with postal code, street-suffix address, then a generic run of
	// word-like characters as the venue-name fallback.
	patterns := []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`[%s\s]+\d+[a-zA-Z]?,?\s*\d{5}\s+[%s]+`, letters, letters)),
		regexp.MustCompile(fmt.Sprintf(`(?i)[%s]+(?:%s)\s+\d+[a-zA-Z]?`, letters, strings.Join(p.StreetSuffixes, "|"))),
		regexp.MustCompile(fmt.Sprintf(`[%s\s&-]{8,50}`, letters)),
	}

	boiler := make([]*regexp.Regexp, 0, len(p.Boilerplate))
	for _, phrase := range p.Boilerplate {
		boiler = append(boiler, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)))
	}

	return &Separator{profile: p, locationPatterns: patterns, boilerplate: boiler}
}

func (s *Separator) Profile() Profile {
	return s.profile
}

// Separate runs the subtractive cleaning over one card.
func (s *Separator) Separate(rawTitle, cardText, timeText string) Fields {
	var f Fields

	// Title: drop the time fragment and the count/bullet noise that the
	// anchor text sometimes swallows from neighbouring nodes.
	title := rawTitle
	if timeText != "" {
		title = strings.Replace(title, timeText, "", 1)
	}
	title = reInterestedAny.ReplaceAllString(title, "")
	title = reGoingAny.ReplaceAllString(title, "")
	title = reWentAny.ReplaceAllString(title, "")
	title = strings.ReplaceAll(title, "·", "")
	f.CleanTitle = collapse(title)

	// Counts come from the full card text, not the title.
	if m := reInterested.FindStringSubmatch(cardText); m != nil {
		f.InterestedCount, _ = strconv.Atoi(m[1])
	}
	if m := reGoing.FindStringSubmatch(cardText); m != nil {
		f.GoingCount, _ = strconv.Atoi(m[1])
	}

	// Location: eliminate everything already accounted for and treat the
	// remainder as the candidate text.
	candidate := cardText
	if timeText != "" {
		candidate = strings.Replace(candidate, timeText, "", 1)
	}
	if f.CleanTitle != "" {
		candidate = strings.Replace(candidate, f.CleanTitle, "", 1)
	}
	candidate = reInterestedAny.ReplaceAllString(candidate, "")
	candidate = reGoingAny.ReplaceAllString(candidate, "")
	candidate = strings.ReplaceAll(candidate, "·", "")
	for _, re := range s.boilerplate {
		candidate = re.ReplaceAllString(candidate, "")
	}
	candidate = collapse(candidate)

	for _, re := range s.locationPatterns {
		if m := re.FindString(candidate); m != "" {
			if loc := strings.TrimSpace(m); len(loc) > 3 {
				f.Location = loc
				break
			}
		}
	}

	return f
}

func collapse(s string) string {
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}
