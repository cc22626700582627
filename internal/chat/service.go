// Package chat relays user messages to the conversational backend and
// normalizes its per-conversation tracker for display.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vcidst/demo-bank/internal/rasa"
)

// FallbackReply is returned when the backend produces no usable reply
// segment.
const FallbackReply = "I'm sorry, I didn't understand that."

// Backend is the conversational backend consumed by the service.
type Backend interface {
	SendMessage(ctx context.Context, sender, message string) ([]rasa.BotMessage, error)
	Tracker(ctx context.Context, conversationID, includeEvents string) (json.RawMessage, error)
}

// MessageWriter persists completed exchanges.
type MessageWriter interface {
	SaveChatMessage(userID int64, message, response string) error
}

// Service wires the backend client and the message store.
type Service struct {
	backend Backend
	store   MessageWriter
}

func NewService(backend Backend, store MessageWriter) *Service {
	return &Service{backend: backend, store: store}
}

// Relay forwards a user's message to the backend and returns the reply. Only
// the first reply segment is used; an empty or text-less response yields
// FallbackReply. The exchange is persisted best-effort after the reply is
// obtained: a storage failure is logged and the reply is still returned.
func (s *Service) Relay(ctx context.Context, userID int64, message string) (string, error) {
	messages, err := s.backend.SendMessage(ctx, strconv.FormatInt(userID, 10), message)
	if err != nil {
		return "", fmt.Errorf("relaying message: %w", err)
	}

	reply := FallbackReply
	if len(messages) > 0 && messages[0].Text != "" {
		reply = messages[0].Text
	}

	if err := s.store.SaveChatMessage(userID, message, reply); err != nil {
		slog.Warn("saving chat message failed", "user_id", userID, "error", err)
	}

	return reply, nil
}

// ConversationTracker fetches a conversation's raw tracker from the backend
// and returns its normalized view. includeEvents is passed through verbatim;
// an empty string omits the filter parameter on the outbound request.
func (s *Service) ConversationTracker(ctx context.Context, conversationID, includeEvents string) (*TrackerView, error) {
	raw, err := s.backend.Tracker(ctx, conversationID, includeEvents)
	if err != nil {
		return nil, fmt.Errorf("fetching tracker: %w", err)
	}
	return NormalizeTracker(conversationID, raw)
}
