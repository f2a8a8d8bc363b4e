package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/SyntaxSorcerers2025/ticketly/internal/ai"
	"github.com/SyntaxSorcerers2025/ticketly/internal/apperr"
	"github.com/SyntaxSorcerers2025/ticketly/internal/utils"
)

// AIHTTP serves the explicit classification endpoints. These are the only
// place a gateway failure is visible to a caller, as 502; ticket creation
// consumes the same client silently.
type AIHTTP struct {
	client *ai.Client
}

func NewAIHTTP(client *ai.Client) *AIHTTP { return &AIHTTP{client: client} }

func decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var in struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid json")
		return "", false
	}
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		utils.Error(w, http.StatusBadRequest, "text is required")
		return "", false
	}
	return in.Text, true
}

// POST /api/ai/classify
func (h *AIHTTP) Classify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := decodeText(w, r)
		if !ok {
			return
		}
		s, err := h.client.Suggest(r.Context(), text)
		if err != nil {
			utils.AppError(w, apperr.New(apperr.DependencyUnavailable, "AI service unavailable"))
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}

// POST /api/ai/summarize
func (h *AIHTTP) Summarize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, ok := decodeText(w, r)
		if !ok {
			return
		}
		summary, err := h.client.Summarize(r.Context(), text)
		if err != nil {
			utils.AppError(w, apperr.New(apperr.DependencyUnavailable, "AI service unavailable"))
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"summary": summary})
	}
}
