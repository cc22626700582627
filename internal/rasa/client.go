// Package rasa is a thin HTTP client for a Rasa-compatible conversational
// backend: the REST webhook for sending messages and the tracker endpoint
// for reading per-conversation state.
package rasa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// BotMessage is one reply segment returned by the REST webhook. Every field
// is optional on the wire.
type BotMessage struct {
	RecipientID string `json:"recipient_id,omitempty"`
	Text        string `json:"text,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Client communicates with the Rasa server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given Rasa base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SendMessage posts a user message to the REST webhook and returns the
// ordered reply segments. The call is attempted exactly once; any transport
// error, non-2xx status, or undecodable body is returned as-is.
func (c *Client) SendMessage(ctx context.Context, sender, message string) ([]BotMessage, error) {
	body, err := json.Marshal(map[string]string{
		"sender":  sender,
		"message": message,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/webhooks/rest/webhook", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var messages []BotMessage
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return nil, fmt.Errorf("decoding webhook response: %w", err)
	}
	return messages, nil
}

// Tracker fetches the raw tracker document for a conversation. When
// includeEvents is empty the include_events query parameter is omitted
// entirely rather than sent empty; the Rasa server treats the two
// differently.
func (c *Client) Tracker(ctx context.Context, conversationID, includeEvents string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/conversations/%s/tracker", c.baseURL, url.PathEscape(conversationID))
	if includeEvents != "" {
		u += "?include_events=" + url.QueryEscape(includeEvents)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching tracker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading tracker response: %w", err)
	}
	return json.RawMessage(raw), nil
}

// IsRunning reports whether the Rasa server responds to GET /version.
func (c *Client) IsRunning(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
