// Package dto holds the wire-facing shapes served by the HTTP layer and the
// AI chat contract. Domain records are embedded, never redefined.
package dto

import "github.com/ajinkyagorad/fb-events-map/internal/models/domain"

// EnrichedEvent is an EventRecord plus the derived browse facets.
type EnrichedEvent struct {
	domain.EventRecord
	Type          string   `json:"type"`
	DayBucket     string   `json:"day_bucket"`
	Venue         string   `json:"venue,omitempty"`
	Neighbourhood string   `json:"neighbourhood,omitempty"`
	Popularity    float64  `json:"popularity"`
	PriceBucket   string   `json:"price_bucket"`
	Tags          []string `json:"tags"`
	Cancelled     bool     `json:"cancelled"`
	Score         float64  `json:"score"`
}

// ChatRequest is the question posted to the chat endpoint.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the structured answer the assistant is asked to produce:
// a response kind, a human message, and the referenced events in
// chronological order.
type ChatResponse struct {
	Type    string               `json:"type"`
	Message string               `json:"message"`
	Events  []domain.EventRecord `json:"events"`
}

// ExtractSummary reports one finished extraction pass.
type ExtractSummary struct {
	RequestID string `json:"request_id"`
	Count     int    `json:"count"`
	Mappable  int    `json:"mappable"`
	Stored    bool   `json:"stored"`
}
