// Package timeparse turns the free-text time fragments that appear on event
// cards ("Happening now", "Today at 7 PM", "Sat, Jun 15 9:30 PM", "Aug 4")
// into absolute instants plus a normalized display label.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	reSpace        = regexp.MustCompile(`\s+`)
	reHappeningNow = regexp.MustCompile(`(?i)^happening now`)
	reTodayAt      = regexp.MustCompile(`(?i)Today at\s+(\d{1,2})(?::(\d{2}))?\s*([AP]M)`)
	reWeekdayDate  = regexp.MustCompile(`(?i)(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun),\s+([A-Za-z]{3,})\s+(\d{1,2})`)
	reClock        = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*([AP]M)`)
	reMonthDay     = regexp.MustCompile(`\b([A-Za-z]{3,})\s+(\d{1,2})\b`)

	reDatePart = regexp.MustCompile(`(?i)(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun),?\s+[A-Za-z]{3,}\s+\d{1,2}`)
	reTimePart = regexp.MustCompile(`(?i)\d{1,2}(?::\d{2})?\s*[AP]M`)
)

// Result of a parse attempt. Start is nil exactly when Label is empty:
// either the whole fragment was recognized or none of it was.
type Result struct {
	Start *time.Time
	Label string
}

// Parse recognizes a time fragment against a fixed pattern ladder; the first
// matching pattern wins, so the order below matters (the patterns overlap).
// The reference instant is injected so callers and tests control "now".
func Parse(text string, now time.Time) Result {
	t := strings.TrimSpace(reSpace.ReplaceAllString(text, " "))
	if t == "" {
		return Result{}
	}

	if reHappeningNow.MatchString(t) {
		return Result{Start: &now, Label: "Happening now"}
	}

	if m := reTodayAt.FindStringSubmatch(t); m != nil {
		h, min := meridiem(m[1], m[2], m[3])
		d := time.Date(now.Year(), now.Month(), now.Day(), h, min, 0, 0, now.Location())
		return Result{Start: &d, Label: m[0]}
	}

	if m := reWeekdayDate.FindStringSubmatch(t); m != nil {
		if mon, ok := monthByName(m[1]); ok {
			day, _ := strconv.Atoi(m[2])
			h, min := 0, 0
			label := m[0]
			if c := reClock.FindStringSubmatch(t); c != nil {
				h, min = meridiem(c[1], c[2], c[3])
				label += " " + c[0]
			}
			d := time.Date(now.Year(), mon, day, h, min, 0, 0, now.Location())
			return Result{Start: &d, Label: label}
		}
	}

	if m := reMonthDay.FindStringSubmatch(t); m != nil {
		if mon, ok := monthByName(m[1]); ok {
			day, _ := strconv.Atoi(m[2])
			d := time.Date(now.Year(), mon, day, 0, 0, 0, 0, now.Location())
			return Result{Start: &d, Label: m[0]}
		}
	}

	return Result{}
}

// SplitLabel separates a recognized time fragment into its display date and
// clock-time parts; either may be empty.
func SplitLabel(timeText string) (date string, clock string) {
	return reDatePart.FindString(timeText), reTimePart.FindString(timeText)
}

// meridiem applies 12-hour to 24-hour conversion: 12 AM maps to 0, 12 PM
// stays 12, other PM hours gain 12.
func meridiem(h, m, ampm string) (int, int) {
	hour, _ := strconv.Atoi(h)
	min := 0
	if m != "" {
		min, _ = strconv.Atoi(m)
	}
	pm := strings.EqualFold(ampm, "PM")
	if pm && hour != 12 {
		hour += 12
	}
	if !pm && hour == 12 {
		hour = 0
	}
	return hour, min
}

// monthByName resolves a month word by its 3-letter prefix. An unknown token
// is a parse failure for the caller, never a panic.
func monthByName(word string) (time.Month, bool) {
	if len(word) < 3 {
		return 0, false
	}
	m, ok := months[strings.ToLower(word[:3])]
	return m, ok
}
