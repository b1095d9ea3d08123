package extract

import (
	"strings"

	"callwatch/internal/call"
)

// Status keyword sets. Order matters: closed keywords are consulted
// first, so a text mentioning both an open and a closed phrase
// classifies as closed.
var (
	closedKeywords = []string{"cerrada", "cerrado", "closed", "concluida", "finalizada", "terminada"}
	openKeywords   = []string{"abierta", "abierto", "open", "vigente", "en curso"}
)

// Classifier scores free text against the configured Spanish and
// English keyword sets. Matching is case-insensitive substring
// presence, no weighting.
type Classifier struct {
	es []string
	en []string
}

func NewClassifier(keywordsES, keywordsEN []string) *Classifier {
	return &Classifier{es: lowerAll(keywordsES), en: lowerAll(keywordsEN)}
}

// Language returns es, en, mixed or unknown depending on which keyword
// sets hit the text.
func (c *Classifier) Language(text string) string {
	t := strings.ToLower(text)
	esHits := countHits(t, c.es)
	enHits := countHits(t, c.en)
	switch {
	case esHits > 0 && enHits > 0:
		return call.LangMixed
	case esHits > 0:
		return call.LangES
	case enHits > 0:
		return call.LangEN
	}
	return call.LangUnknown
}

// Status returns open, closed or unknown. Closed keywords take
// precedence.
func Status(text string) string {
	t := strings.ToLower(text)
	for _, k := range closedKeywords {
		if strings.Contains(t, k) {
			return call.StatusClosed
		}
	}
	for _, k := range openKeywords {
		if strings.Contains(t, k) {
			return call.StatusOpen
		}
	}
	return call.StatusUnknown
}

func countHits(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			n++
		}
	}
	return n
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
