package rasa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestSendMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/webhooks/rest/webhook" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload["sender"] != "42" || payload["message"] != "check my balance" {
			t.Errorf("payload = %v", payload)
		}
		fmt.Fprint(w, `[{"recipient_id":"42","text":"Your balance is $100"}]`)
	})

	msgs, err := c.SendMessage(context.Background(), "42", "check my balance")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Text != "Your balance is $100" {
		t.Errorf("Text = %q", msgs[0].Text)
	}
}

func TestSendMessageEmptyReply(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	msgs, err := c.SendMessage(context.Background(), "u1", "xyz")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("got %d messages, want 0", len(msgs))
	}
}

func TestSendMessageUpstreamError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	if _, err := c.SendMessage(context.Background(), "u1", "hi"); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestSendMessageMalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not":"an array"}`)
	})

	if _, err := c.SendMessage(context.Background(), "u1", "hi"); err == nil {
		t.Fatal("expected error on malformed body")
	}
}

func TestTracker(t *testing.T) {
	raw := `{"sender_id":"conv1","events":[{"event":"user","text":"hi"}],"slots":{"name":"Alice"}}`

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/conv1/tracker" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("include_events"); got != "ALL" {
			t.Errorf("include_events = %q, want ALL", got)
		}
		fmt.Fprint(w, raw)
	})

	got, err := c.Tracker(context.Background(), "conv1", "ALL")
	if err != nil {
		t.Fatalf("Tracker: %v", err)
	}
	if string(got) != raw {
		t.Errorf("raw tracker altered: %s", got)
	}
}

// An empty include_events must omit the query parameter entirely, not send
// include_events=.
func TestTrackerOmitsEmptyIncludeEvents(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want none", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"events":[],"slots":{}}`)
	})

	if _, err := c.Tracker(context.Background(), "conv1", ""); err != nil {
		t.Fatalf("Tracker: %v", err)
	}
}

func TestTrackerUpstreamError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conversation not found", http.StatusNotFound)
	})

	if _, err := c.Tracker(context.Background(), "missing", "ALL"); err == nil {
		t.Fatal("expected error on HTTP 404")
	}
}

func TestIsRunning(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"version":"3.6.0"}`)
	})

	if !c.IsRunning(context.Background()) {
		t.Error("IsRunning = false, want true")
	}

	down := New("http://127.0.0.1:1")
	if down.IsRunning(context.Background()) {
		t.Error("IsRunning = true for unreachable server")
	}
}
