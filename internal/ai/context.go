package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/ajinkyagorad/fb-events-map/internal/models/domain"
)

const systemPrompt = `You are an assistant for a local events browser. Answer questions using
ONLY the events provided in the context. Reply with a single JSON object of
the shape {"type": "...", "message": "...", "events": [...]} where "type" is
one of "answer", "recommendation" or "none", "message" is a short helpful
reply, and "events" is the subset of context events you refer to, copied
verbatim and sorted chronologically. Do not invent events.`

// FormatEvents renders the stored records into the textual context block
// handed to the model, one numbered entry per event.
func FormatEvents(events []domain.EventRecord) string {
	if len(events) == 0 {
		return "No events available."
	}

	var b strings.Builder
	for i, ev := range events {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ev.Title)
		if ev.TimeText != "" {
			line := ev.TimeText
			if start, ok := ev.Start(); ok {
				line += " (" + start.Format("Mon 2 Jan 15:04") + ")"
			}
			fmt.Fprintf(&b, "   time: %s\n", line)
		}
		if ev.Location != "" {
			fmt.Fprintf(&b, "   location: %s\n", ev.Location)
		}
		if ev.URL != "" {
			fmt.Fprintf(&b, "   url: %s\n", ev.URL)
		}
		if ev.Description != "" {
			fmt.Fprintf(&b, "   description: %s\n", ev.Description)
		}
		fmt.Fprintf(&b, "   id: %s\n", ev.ID)
	}
	return b.String()
}

func buildPrompt(question string, events []domain.EventRecord, now time.Time) string {
	var b strings.Builder
	b.WriteString("Current time: " + now.Format(time.RFC1123) + "\n\n")
	b.WriteString("Events:\n")
	b.WriteString(FormatEvents(events))
	b.WriteString("\nQuestion: " + question + "\n")
	return b.String()
}

// QuickResponses are the canned prompts offered to the user before they type
// their own question.
func QuickResponses() []string {
	return []string{
		"What's happening today?",
		"Any free events this week?",
		"Recommend something for tonight",
		"What's popular this weekend?",
	}
}

// extractJSONObject pulls the first balanced top-level JSON object out of a
// model reply. Models wrap answers in markdown fences or prose often enough
// that plain unmarshalling is not an option.
func extractJSONObject(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
