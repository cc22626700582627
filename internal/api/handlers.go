package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vcidst/demo-bank/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type chatRequest struct {
	Message string `json:"message"`
}

func handleChat(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := sessionUser(r)
		if !ok {
			httpError(w, http.StatusUnauthorized, "authentication_error", "not authenticated")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		reply, err := deps.Chat.Relay(r.Context(), userID, req.Message)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "upstream error: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"response": reply})
	}
}

func handleListUsers(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Store.ListUsers()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list users: %v", err)
			return
		}
		if users == nil {
			users = []storage.User{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	}
}

func handleChatHistory(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid user id")
			return
		}
		limit := parseIntParam(r, "limit", 50, 200)

		messages, err := deps.Store.ChatHistory(userID, limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load chat history: %v", err)
			return
		}
		if messages == nil {
			messages = []storage.ChatMessage{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messages)
	}
}

func handleTracker(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversation_id")

		// include_events defaults to ALL only when absent; a caller sending
		// include_events= explicitly gets the empty value, which omits the
		// filter on the upstream request.
		includeEvents := "ALL"
		if values, ok := r.URL.Query()["include_events"]; ok && len(values) > 0 {
			includeEvents = values[0]
		}

		view, err := deps.Chat.ConversationTracker(r.Context(), conversationID, includeEvents)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "error fetching tracker: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(view)
	}
}
