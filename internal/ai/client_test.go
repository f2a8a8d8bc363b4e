package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/SyntaxSorcerers2025/ticketly/internal/config"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
)

func heuristicClient() *Client {
	return New(config.Config{AITimeout: time.Second}, nil, zerolog.Nop())
}

func TestHeuristicSuggestion(t *testing.T) {
	cases := []struct {
		text     string
		category models.Category
		priority models.Priority
	}{
		{"The network is down campus wide", models.CategoryNetwork, models.PriorityUrgent},
		{"Printer on floor 2 jams every morning", models.CategoryHardware, models.PriorityMedium},
		{"Application crashes with an error on save", models.CategorySoftware, models.PriorityMedium},
		{"Wifi is slow in the library", models.CategoryNetwork, models.PriorityHigh},
		{"Minor cosmetic issue with the login page logo", models.CategoryOther, models.PriorityLow},
		{"Please schedule a meeting room", models.CategoryOther, models.PriorityMedium},
	}
	c := heuristicClient()
	for _, tc := range cases {
		s, err := c.Suggest(context.Background(), tc.text)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.text, err)
		}
		if s.Category != tc.category || s.Priority != tc.priority {
			t.Errorf("%q: got category=%d priority=%d, want %d/%d",
				tc.text, s.Category, s.Priority, tc.category, tc.priority)
		}
	}
}

func TestHeuristicSummaryShortTextUnchanged(t *testing.T) {
	c := heuristicClient()
	out, err := c.Summarize(context.Background(), "  VPN drops every hour.  ")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if out != "VPN drops every hour." {
		t.Errorf("summary = %q", out)
	}
}

func TestHeuristicSummaryLongTextTruncated(t *testing.T) {
	c := heuristicClient()
	long := strings.Repeat("word ", 100)
	out, err := c.Summarize(context.Background(), long)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(out) > 200 {
		t.Errorf("summary not truncated, len=%d", len(out))
	}
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
}

func remoteClient(url string) *Client {
	return New(config.Config{
		AIEndpoint: url,
		AIModel:    "test-model",
		AITimeout:  2 * time.Second,
	}, nil, zerolog.Nop())
}

func TestSuggestUsesRemoteAnswer(t *testing.T) {
	srv := chatServer(t, `{"category":3,"priority":4,"rationale":"campus outage"}`)
	defer srv.Close()

	s, err := remoteClient(srv.URL).Suggest(context.Background(), "everything is broken")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if s.Category != models.CategoryNetwork || s.Priority != models.PriorityUrgent {
		t.Errorf("got category=%d priority=%d, want network/urgent", s.Category, s.Priority)
	}
	if s.Rationale != "campus outage" {
		t.Errorf("rationale = %q", s.Rationale)
	}
}

// Prose or out-of-range answers from the model are replaced by the heuristic
// classification, keeping the raw text as rationale.
func TestSuggestInvalidModelOutputFallsBack(t *testing.T) {
	srv := chatServer(t, "Sure! This looks like a network issue.")
	defer srv.Close()

	s, err := remoteClient(srv.URL).Suggest(context.Background(), "wifi is down before the exam")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if s.Category != models.CategoryNetwork || s.Priority != models.PriorityUrgent {
		t.Errorf("heuristic fallback expected, got category=%d priority=%d", s.Category, s.Priority)
	}
	if s.Rationale != "Sure! This looks like a network issue." {
		t.Errorf("rationale = %q", s.Rationale)
	}
}

func TestSuggestServerErrorFallsBackWithError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s, err := remoteClient(srv.URL).Suggest(context.Background(), "printer is broken")
	if err == nil {
		t.Fatal("expected a gateway error for the explicit endpoints to surface")
	}
	// Caller still gets a usable answer.
	if s.Category != models.CategoryHardware {
		t.Errorf("category = %d, want hardware heuristic", s.Category)
	}
}

func TestSummarizeUsesRemoteAnswer(t *testing.T) {
	srv := chatServer(t, "Campus wifi outage affecting all buildings.")
	defer srv.Close()

	out, err := remoteClient(srv.URL).Summarize(context.Background(), "long ticket text here")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if out != "Campus wifi outage affecting all buildings." {
		t.Errorf("summary = %q", out)
	}
}
