package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"callwatch/internal/call"
	"callwatch/internal/extract"
	"callwatch/internal/metrics"
	"callwatch/internal/textutil"
)

const (
	// Anchors with less visible text than this are navigation or
	// boilerplate, not announcements.
	minAnchorTextRunes = 10
	// Bound on the surrounding-context text taken per anchor.
	contextRunes = 1200
)

// ParseHTML extracts candidate calls from the raw HTML of a listing
// page. Every anchor with enough visible text is resolved against the
// source URL, filtered by host/allow-list, deduplicated within the run
// and gated on at least one relevance keyword appearing in its
// surrounding block context. For each surviving anchor the destination
// page is fetched once for richer classification input; on failure the
// anchor context is used instead.
func (f *Fetcher) ParseHTML(ctx context.Context, src Source, html []byte, now time.Time) ([]call.Call, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	base, err := url.Parse(src.URL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("source %q: base URL %q is not absolute", src.Name, src.URL)
	}

	seen := make(map[string]bool)
	var out []call.Call

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.TrimSpace(href) == "" {
			return true
		}

		abs := resolveURL(base, href)
		if abs == "" {
			return true
		}
		if seen[abs] {
			metrics.Global.IncrementDuplicatesSkipped()
			return true
		}
		seen[abs] = true

		if !allowLink(base, abs, src.AllowList) {
			return true
		}

		text := textutil.Normalize(a.Text())
		if utf8.RuneCountInString(text) < minAnchorTextRunes {
			return true
		}

		blockText := anchorContext(a)
		if !matchesAny(strings.ToLower(blockText), f.keywords) {
			return true
		}

		if len(out) > 0 && f.PageFetchPause > 0 {
			time.Sleep(f.PageFetchPause)
		}

		// One extra fetch of the destination page for better deadline and
		// status signal; a failure here never escalates past this item.
		fullText := blockText
		if pageText, err := f.client.PageText(ctx, abs); err != nil {
			slog.Debug("page fetch failed, keeping anchor context",
				"source", src.Name, "url", abs, "error", err)
		} else if pageText != "" {
			fullText = pageText
		}

		out = append(out, call.Call{
			Source:           src.Name,
			Title:            textutil.Truncate(text, titleRunes),
			URL:              abs,
			Snippet:          textutil.Truncate(fullText, snippetRunes),
			DetectedDeadline: extract.Deadline(fullText, now),
			DetectedLanguage: f.classifier.Language(fullText),
			DetectedStatus:   extract.Status(fullText),
			FetchedAt:        now,
		})
		return len(out) < f.maxItems
	})

	return out, nil
}

// anchorContext returns the text of the nearest containing block-level
// ancestor, falling back to the anchor's own text.
func anchorContext(a *goquery.Selection) string {
	text := a.Text()
	if container := a.Closest("article, div, li"); container.Length() > 0 {
		text = container.Text()
	}
	return textutil.Truncate(textutil.Normalize(text), contextRunes)
}

// allowLink applies the link filter: with an allow-list configured a
// link must match one of its tokens; without one it must share the base
// URL's host.
func allowLink(base *url.URL, abs string, tokens []string) bool {
	if len(tokens) > 0 {
		lowered := strings.ToLower(abs)
		for _, tok := range tokens {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok != "" && strings.Contains(lowered, tok) {
				return true
			}
		}
		return false
	}

	target, err := url.Parse(abs)
	if err != nil {
		return false
	}
	return strings.EqualFold(target.Host, base.Host)
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
