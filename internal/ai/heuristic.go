package ai

import (
	"regexp"
	"strings"

	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
)

// Keyword fallback used whenever the remote model is unconfigured, slow, or
// down. Classification must always return something useful.
var (
	reHardware = regexp.MustCompile(`(printer|keyboard|mouse|monitor|laptop|hardware)`)
	reSoftware = regexp.MustCompile(`(install|crash|bug|application|software|error)`)
	reNetwork  = regexp.MustCompile(`(wifi|network|internet|connection|vpn|latency)`)

	reUrgent = regexp.MustCompile(`(cannot|can't|down|urgent|critical|deadline|exam|testing|production)`)
	reHigh   = regexp.MustCompile(`(slow|degraded|intermittent|frequent)`)
	reLow    = regexp.MustCompile(`(minor|cosmetic|feature request)`)
)

func heuristicSuggestion(text string) Suggestion {
	t := strings.ToLower(text)

	category := models.CategoryOther
	switch {
	case reHardware.MatchString(t):
		category = models.CategoryHardware
	case reSoftware.MatchString(t):
		category = models.CategorySoftware
	case reNetwork.MatchString(t):
		category = models.CategoryNetwork
	}

	priority := models.PriorityMedium
	switch {
	case reUrgent.MatchString(t):
		priority = models.PriorityUrgent
	case reHigh.MatchString(t):
		priority = models.PriorityHigh
	case reLow.MatchString(t):
		priority = models.PriorityLow
	}

	return Suggestion{
		Category:  category,
		Priority:  priority,
		Rationale: "keyword heuristic (AI gateway not consulted)",
	}
}

// heuristicSummary trims the text to its first sentence, capped to a length
// that still reads as a summary.
func heuristicSummary(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= 160 {
		return trimmed
	}
	cut := 160
	if i := strings.Index(trimmed, "."); i != -1 && i+1 < 200 {
		cut = i + 1
	}
	if cut < 80 {
		cut = 80
	}
	if cut > len(trimmed) {
		cut = len(trimmed)
	}
	return strings.TrimSpace(trimmed[:cut])
}
