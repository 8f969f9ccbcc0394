package extract

import "testing"

func TestSeparatePostalAddress(t *testing.T) {
	sep := NewSeparator(DefaultProfile())

	f := sep.Separate(
		"Summer Festival Sat, Jun 15 9:30 PM · 45 interested",
		"Summer Festival Sat, Jun 15 9:30 PM Mannerheimintie 30, 00100 Helsinki 45 interested · 12 going View on Facebook Share",
		"Sat, Jun 15 9:30 PM",
	)

	if f.CleanTitle != "Summer Festival" {
		t.Errorf("CleanTitle = %q", f.CleanTitle)
	}
	if f.Location != "Mannerheimintie 30, 00100 Helsinki" {
		t.Errorf("Location = %q", f.Location)
	}
	if f.InterestedCount != 45 {
		t.Errorf("InterestedCount = %d", f.InterestedCount)
	}
	if f.GoingCount != 12 {
		t.Errorf("GoingCount = %d", f.GoingCount)
	}
}

func TestSeparateStreetSuffix(t *testing.T) {
	sep := NewSeparator(DefaultProfile())

	f := sep.Separate("Tanssit", "Tanssit Kaivokatu 12", "")
	if f.CleanTitle != "Tanssit" {
		t.Errorf("CleanTitle = %q", f.CleanTitle)
	}
	if f.Location != "Kaivokatu 12" {
		t.Errorf("Location = %q", f.Location)
	}
}

func TestSeparateVenueFallback(t *testing.T) {
	sep := NewSeparator(DefaultProfile())

	f := sep.Separate("Klubi-ilta", "Klubi-ilta Kulttuuritalo Arena", "")
	if f.Location != "Kulttuuritalo Arena" {
		t.Errorf("Location = %q", f.Location)
	}
}

func TestSeparateNoLocation(t *testing.T) {
	sep := NewSeparator(DefaultProfile())

	f := sep.Separate("Party", "Party fun", "")
	if f.Location != "" {
		t.Errorf("Location = %q, want empty", f.Location)
	}
}

func TestSeparateWentCountsAsGoing(t *testing.T) {
	sep := NewSeparator(DefaultProfile())

	f := sep.Separate("Gig", "Gig 7 went", "")
	if f.GoingCount != 7 {
		t.Errorf("GoingCount = %d, want 7", f.GoingCount)
	}
}

func TestSeparatorPartialProfileGetsDefaults(t *testing.T) {
	sep := NewSeparator(Profile{City: "Espoo"})
	p := sep.Profile()
	if p.City != "Espoo" {
		t.Errorf("City = %q", p.City)
	}
	if p.Country != "Finland" || len(p.StreetSuffixes) == 0 {
		t.Errorf("defaults not applied: %+v", p)
	}
}
