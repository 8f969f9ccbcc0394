package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/sl"
)

const defaultNominatimEndpoint = "https://nominatim.openstreetmap.org/search"

// NominatimClient resolves free-text location queries against the OSM
// Nominatim search API. When a relay URL is configured it is tried first and
// a direct request is the fallback; some networks only let the relay
// through, others only the direct host.
type NominatimClient struct {
	logger      *slog.Logger
	client      *http.Client
	endpoint    string
	relayURL    string
	countryCode string
	userAgent   string
}

func NewNominatimClient(logger *slog.Logger, endpoint, relayURL, countryCode, userAgent string, timeout time.Duration) *NominatimClient {
	if endpoint == "" {
		endpoint = defaultNominatimEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimClient{
		logger:      logger,
		client:      &http.Client{Timeout: timeout},
		endpoint:    endpoint,
		relayURL:    relayURL,
		countryCode: countryCode,
		userAgent:   userAgent,
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves one query. A query the service does not know returns
// (nil, nil); only transport-level trouble is an error.
func (c *NominatimClient) Geocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	op := "geo.NominatimClient.Geocode()"
	log := c.logger.With(slog.String("op", op))

	target := c.searchURL(query)

	urls := make([]string, 0, 2)
	if c.relayURL != "" {
		urls = append(urls, c.relayURL+url.QueryEscape(target))
	}
	urls = append(urls, target)

	var lastErr error
	for _, u := range urls {
		places, reqErr := c.fetch(ctx, u)
		if reqErr != nil {
			lastErr = reqErr
			log.Debug("geocode request failed", sl.Err(reqErr))
			continue
		}
		if len(places) == 0 {
			return nil, nil
		}
		lat, latErr := strconv.ParseFloat(places[0].Lat, 64)
		lng, lngErr := strconv.ParseFloat(places[0].Lon, 64)
		if latErr != nil || lngErr != nil {
			return nil, nil
		}
		return &domain.Coordinate{Lat: lat, Lng: lng}, nil
	}
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

func (c *NominatimClient) searchURL(query string) string {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	if c.countryCode != "" {
		q.Set("countrycodes", c.countryCode)
	}
	return c.endpoint + "?" + q.Encode()
}

func (c *NominatimClient) fetch(ctx context.Context, u string) ([]nominatimPlace, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, err
	}
	return places, nil
}
