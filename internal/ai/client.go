// Package ai talks to an OpenAI-compatible chat endpoint to classify and
// summarize ticket text. Every path degrades to a local heuristic: the
// gateway is advisory and must never fail or delay its caller.
package ai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/SyntaxSorcerers2025/ticketly/internal/config"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
)

type Suggestion struct {
	Category  models.Category `json:"category"`
	Priority  models.Priority `json:"priority"`
	Rationale string          `json:"rationale"`
}

type Client struct {
	endpoint string
	key      string
	model    string
	timeout  time.Duration
	http     *http.Client
	cb       *gobreaker.CircuitBreaker
	cache    *redis.Client // nil disables caching
	log      zerolog.Logger
}

// New builds the gateway client. An empty endpoint yields a client that only
// ever answers heuristically, which is a valid deployment.
func New(cfg config.Config, cache *redis.Client, log zerolog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "AI-Gateway",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("circuit breaker state change")
		},
	})
	return &Client{
		endpoint: strings.TrimRight(cfg.AIEndpoint, "/"),
		key:      cfg.AIKey,
		model:    cfg.AIModel,
		timeout:  cfg.AITimeout,
		http:     &http.Client{Timeout: cfg.AITimeout},
		cb:       cb,
		cache:    cache,
		log:      log,
	}
}

func (c *Client) configured() bool { return c.endpoint != "" }

// Suggest classifies ticket text into a category and priority. Remote
// failures of any kind fall back to the heuristic; the error return lets
// the explicit AI endpoints report the gateway as unavailable while the
// suggestion itself stays usable.
func (c *Client) Suggest(ctx context.Context, text string) (Suggestion, error) {
	if !c.configured() {
		return heuristicSuggestion(text), nil
	}

	if s, ok := c.cachedSuggestion(ctx, text); ok {
		return s, nil
	}

	prompt := fmt.Sprintf(`Classify this IT helpdesk ticket. Return strict JSON with keys: `+
		`"category" in [1,2,3,4] (1=Hardware 2=Software 3=Network 4=Other), `+
		`"priority" in [1,2,3,4] (1=Low 4=Urgent), "rationale".`+"\n\n%s", text)

	raw, err := c.chat(ctx, "Classify IT helpdesk tickets. Respond ONLY with strict JSON.", prompt)
	if err != nil {
		c.log.Debug().Err(err).Msg("ai suggest fell back to heuristic")
		return heuristicSuggestion(text), err
	}

	var s Suggestion
	if jerr := json.Unmarshal([]byte(raw), &s); jerr != nil || !s.Category.Valid() || !s.Priority.Valid() {
		// Model answered with prose or out-of-range values.
		s = heuristicSuggestion(text)
		s.Rationale = raw
	}
	c.storeSuggestion(ctx, text, s)
	return s, nil
}

// Summarize condenses ticket text for triage.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if !c.configured() {
		return heuristicSummary(text), nil
	}
	out, err := c.chat(ctx,
		"You are an IT helpdesk assistant. Summarize tickets clearly and concisely for triage.",
		"Summarize this ticket in 1-3 sentences, highlighting problem, impact, and key details:\n\n"+text)
	if err != nil {
		c.log.Debug().Err(err).Msg("ai summarize fell back to heuristic")
		return heuristicSummary(text), err
	}
	return out, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.1,
		MaxTokens:   300,
	})
	if err != nil {
		return "", err
	}

	out, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.key != "" {
			req.Header.Set("Authorization", "Bearer "+c.key)
		}

		res, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
			return nil, fmt.Errorf("ai gateway status %d: %s", res.StatusCode, snippet)
		}
		var cr chatResponse
		if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
			return nil, err
		}
		if len(cr.Choices) == 0 {
			return nil, fmt.Errorf("ai gateway returned no choices")
		}
		return strings.TrimSpace(cr.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

const suggestionCacheTTL = time.Hour

func suggestionKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "ai:suggest:" + hex.EncodeToString(sum[:])
}

func (c *Client) cachedSuggestion(ctx context.Context, text string) (Suggestion, bool) {
	if c.cache == nil {
		return Suggestion{}, false
	}
	raw, err := c.cache.Get(ctx, suggestionKey(text)).Result()
	if err != nil {
		return Suggestion{}, false
	}
	var s Suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Suggestion{}, false
	}
	return s, true
}

func (c *Client) storeSuggestion(ctx context.Context, text string, s Suggestion) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, suggestionKey(text), raw, suggestionCacheTTL).Err(); err != nil {
		c.log.Debug().Err(err).Msg("ai suggestion cache write failed")
	}
}
