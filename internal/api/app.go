// Package api exposes the banking demo over HTTP: the login and chat pages,
// the JSON chat API, and an MCP tool surface for agent tooling.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vcidst/demo-bank/internal/chat"
	"github.com/vcidst/demo-bank/internal/storage"
)

// AppDeps holds dependencies for the HTTP handlers.
type AppDeps struct {
	Store *storage.Store
	Chat  *chat.Service
}

// NewAppHandler returns the demo-bank HTTP handler: pages, session cookie
// plumbing, and the JSON API.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)

	r.Get("/", handleLoginPage())
	r.Post("/login", handleLogin(deps))
	r.Get("/chat", handleChatPage())
	r.Post("/logout", handleLogout())

	r.Get("/health", handleHealth)
	r.Post("/api/chat", handleChat(deps))
	r.Get("/api/users", handleListUsers(deps))
	r.Get("/api/chat-history/{user_id}", handleChatHistory(deps))
	r.Get("/api/tracker/{conversation_id}", handleTracker(deps))

	return r
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
