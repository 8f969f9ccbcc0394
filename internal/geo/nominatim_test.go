package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNominatimGeocode(t *testing.T) {
	var gotQuery, gotCodes, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotCodes = r.URL.Query().Get("countrycodes")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat":"60.17","lon":"24.94"}]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(discard(), srv.URL, "", "fi", "test-agent", time.Second)
	coord, err := c.Geocode(context.Background(), "Suvilahti, Helsinki")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if coord == nil || coord.Lat != 60.17 || coord.Lng != 24.94 {
		t.Errorf("coord = %+v", coord)
	}
	if gotQuery != "Suvilahti, Helsinki" {
		t.Errorf("q = %q", gotQuery)
	}
	if gotCodes != "fi" {
		t.Errorf("countrycodes = %q", gotCodes)
	}
	if gotAgent != "test-agent" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestNominatimNoMatchIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(discard(), srv.URL, "", "fi", "", time.Second)
	coord, err := c.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if coord != nil {
		t.Errorf("coord = %+v, want nil", coord)
	}
}

func TestNominatimServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewNominatimClient(discard(), srv.URL, "", "fi", "", time.Second)
	if _, err := c.Geocode(context.Background(), "x"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestNominatimFallsBackFromRelay(t *testing.T) {
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"lat":"60.2","lon":"25.0"}]`))
	}))
	defer direct.Close()

	// The relay refuses; the direct request must still succeed.
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer relay.Close()

	c := NewNominatimClient(discard(), direct.URL, relay.URL+"/?u=", "fi", "", time.Second)
	coord, err := c.Geocode(context.Background(), "Kallio")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if coord == nil || coord.Lat != 60.2 {
		t.Errorf("coord = %+v", coord)
	}
}
