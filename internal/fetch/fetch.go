// Package fetch turns configured HTML pages and RSS feeds into candidate
// Call records, using the extract heuristics for deadline, language and
// status.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"callwatch/internal/call"
	"callwatch/internal/extract"
)

// Display bounds for extracted fields, in runes.
const (
	titleRunes   = 160
	snippetRunes = 240
)

// Source is one configured page or feed to scan.
type Source struct {
	Name      string
	Type      string // "html" or "rss"
	URL       string
	AllowList []string // substring tokens; when set a link must match one
}

// Fetcher collects candidate calls from sources, one source at a time.
type Fetcher struct {
	client     *Client
	classifier *extract.Classifier
	keywords   []string // lowercased relevance keywords, Spanish + English
	maxItems   int

	// PageFetchPause is the delay between destination-page fetches
	// within one HTML source. Tests set it to zero.
	PageFetchPause time.Duration
}

func New(client *Client, classifier *extract.Classifier, keywords []string, maxItems int) *Fetcher {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Fetcher{
		client:         client,
		classifier:     classifier,
		keywords:       lowered,
		maxItems:       maxItems,
		PageFetchPause: 300 * time.Millisecond,
	}
}

// Fetch collects candidate calls from one source. The returned error
// covers the source-level fetch or parse only; per-item enrichment
// failures inside the HTML fetcher degrade silently.
func (f *Fetcher) Fetch(ctx context.Context, src Source, now time.Time) ([]call.Call, error) {
	switch src.Type {
	case "html":
		body, err := f.client.Get(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		return f.ParseHTML(ctx, src, body, now)
	case "rss":
		return f.RSS(ctx, src, now)
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}

func matchesAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
