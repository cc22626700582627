package chat

import (
	"encoding/json"
	"fmt"
)

// HistoryEntry is one normalized tracker event.
type HistoryEntry struct {
	Type      string  `json:"type"` // "user", "bot", or "event"
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

// TrackerView is the display-friendly reshaping of a raw tracker document.
// RawTracker always carries the unmodified upstream payload for debugging.
type TrackerView struct {
	ConversationID      string          `json:"conversation_id"`
	ConversationHistory []HistoryEntry  `json:"conversation_history"`
	Slots               map[string]any  `json:"slots"`
	RawTracker          json.RawMessage `json:"raw_tracker"`
}

// NormalizeTracker reshapes a raw tracker document into a flat typed
// timeline and a filtered slot map. It is a pure function of its input:
// every raw event maps to exactly one history entry, in input order, with no
// sorting or deduplication.
func NormalizeTracker(conversationID string, raw json.RawMessage) (*TrackerView, error) {
	var doc struct {
		Events []map[string]any `json:"events"`
		Slots  map[string]any   `json:"slots"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding tracker: %w", err)
	}

	history := make([]HistoryEntry, 0, len(doc.Events))
	for _, event := range doc.Events {
		history = append(history, classifyEvent(event))
	}

	return &TrackerView{
		ConversationID:      conversationID,
		ConversationHistory: history,
		Slots:               filterSlots(doc.Slots),
		RawTracker:          raw,
	}, nil
}

// classifyEvent maps one raw event to a history entry. The "event" field is
// the discriminator: "user" and "bot" carry the event's own text, anything
// else becomes a generic entry whose text is the discriminator value itself
// ("unknown_event" when absent).
func classifyEvent(event map[string]any) HistoryEntry {
	entry := HistoryEntry{Timestamp: numberField(event, "timestamp")}

	switch kind := event["event"]; kind {
	case "user", "bot":
		entry.Type = kind.(string)
		entry.Text = stringField(event, "text")
	default:
		entry.Type = "event"
		if s, ok := kind.(string); ok {
			entry.Text = s
		} else {
			entry.Text = "unknown_event"
		}
	}

	return entry
}

// filterSlots drops slots whose value is nil or the empty string, plus the
// internal flow_hashes key. Zero and false values are kept.
func filterSlots(slots map[string]any) map[string]any {
	filtered := make(map[string]any, len(slots))
	for key, value := range slots {
		if key == "flow_hashes" || value == nil || value == "" {
			continue
		}
		filtered[key] = value
	}
	return filtered
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]any, key string) float64 {
	n, _ := m[key].(float64)
	return n
}
