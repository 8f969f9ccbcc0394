// Package ai answers questions about the stored events through an
// OpenRouter-hosted model. The model gets the full event set as context and
// is contractually asked for structured JSON; everything it returns is
// re-validated and re-sorted locally before it reaches a client.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	openrouter "github.com/revrost/go-openrouter"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
	"github.com/ajinkyagorad/fb-events-map/internal/models/dto"
	"github.com/ajinkyagorad/fb-events-map/internal/utils/logger/sl"
)

const (
	retryCount    = 10
	retryDuration = 5 * time.Second
)

// Assistant is the chat service over the stored event set.
type Assistant struct {
	logger *slog.Logger
	client *openrouter.Client
	model  string
}

func NewAssistant(logger *slog.Logger, token, model string) *Assistant {
	return &Assistant{
		logger: logger,
		client: openrouter.NewClient(token),
		model:  model,
	}
}

// Ask sends one question plus the event context to the model and returns the
// structured reply. A reply that cannot be parsed as the agreed JSON shape
// degrades to a plain text answer instead of failing the request.
func (a *Assistant) Ask(ctx context.Context, question string, events []domain.EventRecord) (dto.ChatResponse, error) {
	op := "ai.Assistant.Ask()"
	log := a.logger.With(slog.String("op", op))

	req := openrouter.ChatCompletionRequest{
		Model: a.model,
		Messages: []openrouter.ChatCompletionMessage{
			openrouter.SystemMessage(systemPrompt),
			openrouter.UserMessage(buildPrompt(question, events, time.Now())),
		},
	}

	var resp openrouter.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < retryCount; attempt++ {
		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}
		if isRateLimitError(err) || isEOFError(err) {
			log.Warn("model request throttled, retrying", slog.Int("attempt", attempt+1), sl.Err(err))
			select {
			case <-ctx.Done():
				return dto.ChatResponse{}, fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(retryDuration):
			}
			continue
		}
		return dto.ChatResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	if err != nil {
		return dto.ChatResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return dto.ChatResponse{}, fmt.Errorf("%s: empty completion", op)
	}

	content := resp.Choices[0].Message.Content.Text
	return a.parseReply(content), nil
}

func (a *Assistant) parseReply(content string) dto.ChatResponse {
	raw := extractJSONObject(content)
	if raw == "" {
		return dto.ChatResponse{Type: "text", Message: strings.TrimSpace(content)}
	}

	var out dto.ChatResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return dto.ChatResponse{Type: "text", Message: strings.TrimSpace(content)}
	}
	if out.Type == "" {
		out.Type = "answer"
	}
	// Chronological order is this service's contract, not the model's.
	slices.SortStableFunc(out.Events, domain.CompareByStart)
	return out
}

// Rate limits and dropped connections are worth a retry; anything else is a
// real failure.
func isRateLimitError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "429")
}

func isEOFError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "EOF")
}
