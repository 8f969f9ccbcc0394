package timeparse

import (
	"testing"
	"time"
)

var testNow = time.Date(2024, time.June, 1, 10, 0, 0, 0, time.Local)

func TestParseHappeningNow(t *testing.T) {
	res := Parse("Happening now", testNow)
	if res.Start == nil || !res.Start.Equal(testNow) {
		t.Fatalf("expected start = now, got %v", res.Start)
	}
	if res.Label != "Happening now" {
		t.Errorf("label = %q, want %q", res.Label, "Happening now")
	}
}

func TestParseHappeningNowWithTrailingText(t *testing.T) {
	res := Parse("happening now at Suvilahti until late", testNow)
	if res.Start == nil || !res.Start.Equal(testNow) {
		t.Fatalf("expected start = now, got %v", res.Start)
	}
	if res.Label != "Happening now" {
		t.Errorf("label = %q, want %q", res.Label, "Happening now")
	}
}

func TestParseTodayAt(t *testing.T) {
	tests := []struct {
		text       string
		hour, min  int
		wantLabel  string
	}{
		{"Today at 3:30 PM", 15, 30, "Today at 3:30 PM"},
		{"Today at 12 PM", 12, 0, "Today at 12 PM"},
		{"Today at 12 AM", 0, 0, "Today at 12 AM"},
		{"Today at 9 AM", 9, 0, "Today at 9 AM"},
	}
	for _, tt := range tests {
		res := Parse(tt.text, testNow)
		if res.Start == nil {
			t.Fatalf("%q: expected a start", tt.text)
		}
		want := time.Date(2024, time.June, 1, tt.hour, tt.min, 0, 0, time.Local)
		if !res.Start.Equal(want) {
			t.Errorf("%q: start = %v, want %v", tt.text, res.Start, want)
		}
		if res.Label != tt.wantLabel {
			t.Errorf("%q: label = %q, want %q", tt.text, res.Label, tt.wantLabel)
		}
	}
}

func TestParseWeekdayMonthDay(t *testing.T) {
	res := Parse("Sat, Jun 15", testNow)
	if res.Start == nil {
		t.Fatal("expected a start")
	}
	want := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.Local)
	if !res.Start.Equal(want) {
		t.Errorf("start = %v, want %v", res.Start, want)
	}
	if res.Label != "Sat, Jun 15" {
		t.Errorf("label = %q", res.Label)
	}
}

func TestParseWeekdayMonthDayWithTime(t *testing.T) {
	res := Parse("Fri, August 23 and more 9:30 PM", testNow)
	if res.Start == nil {
		t.Fatal("expected a start")
	}
	want := time.Date(2024, time.August, 23, 21, 30, 0, 0, time.Local)
	if !res.Start.Equal(want) {
		t.Errorf("start = %v, want %v", res.Start, want)
	}
	if res.Label != "Fri, August 23 9:30 PM" {
		t.Errorf("label = %q", res.Label)
	}
}

func TestParseBareMonthDay(t *testing.T) {
	res := Parse("something Aug 4 something", testNow)
	if res.Start == nil {
		t.Fatal("expected a start")
	}
	want := time.Date(2024, time.August, 4, 0, 0, 0, 0, time.Local)
	if !res.Start.Equal(want) {
		t.Errorf("start = %v, want %v", res.Start, want)
	}
	if res.Label != "Aug 4" {
		t.Errorf("label = %q", res.Label)
	}
}

func TestParseMiss(t *testing.T) {
	for _, text := range []string{"no date info here", "", "   "} {
		res := Parse(text, testNow)
		if res.Start != nil || res.Label != "" {
			t.Errorf("%q: expected null result, got %+v", text, res)
		}
	}
}

func TestParseUnknownMonthIsMiss(t *testing.T) {
	// "Xyz 12" matches the month-day shape but the month table has no entry.
	res := Parse("Xyz 12", testNow)
	if res.Start != nil {
		t.Errorf("expected parse failure, got %v", res.Start)
	}
}

func TestParseCollapsesWhitespace(t *testing.T) {
	res := Parse("  Today   at  3:30   PM ", testNow)
	if res.Start == nil {
		t.Fatal("expected a start")
	}
	if res.Label != "Today at 3:30 PM" {
		t.Errorf("label = %q", res.Label)
	}
}

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		in, date, clock string
	}{
		{"Sat, Jun 15 9:30 PM", "Sat, Jun 15", "9:30 PM"},
		{"Sat, Jun 15", "Sat, Jun 15", ""},
		{"Today at 3 PM", "", "3 PM"},
		{"Happening now", "", ""},
	}
	for _, tt := range tests {
		date, clock := SplitLabel(tt.in)
		if date != tt.date || clock != tt.clock {
			t.Errorf("SplitLabel(%q) = (%q, %q), want (%q, %q)", tt.in, date, clock, tt.date, tt.clock)
		}
	}
}
