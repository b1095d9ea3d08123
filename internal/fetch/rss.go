package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"callwatch/internal/call"
	"callwatch/internal/extract"
	"callwatch/internal/textutil"
)

// RSS parses the feed at src.URL and extracts candidate calls from its
// first maxItems entries. An entry must match at least one relevance
// keyword in its combined title+summary text; the deadline is read from
// the summary, or the title when the summary is empty. A feed-level
// parse failure is returned to the caller, which isolates it per
// source.
func (f *Fetcher) RSS(ctx context.Context, src Source, now time.Time) ([]call.Call, error) {
	parser := gofeed.NewParser()
	parser.UserAgent = f.client.userAgent
	parser.Client = f.client.http

	feed, err := parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var out []call.Call
	for i, entry := range feed.Items {
		if i >= f.maxItems {
			break
		}
		if entry.Link == "" {
			continue
		}

		title := textutil.Normalize(entry.Title)
		summary := textutil.Normalize(entry.Description)

		combined := strings.ToLower(title + " " + summary)
		if !matchesAny(combined, f.keywords) {
			continue
		}

		deadlineInput := summary
		if deadlineInput == "" {
			deadlineInput = title
		}

		out = append(out, call.Call{
			Source:           src.Name,
			Title:            textutil.Truncate(title, titleRunes),
			URL:              entry.Link,
			Snippet:          textutil.Truncate(summary, snippetRunes),
			DetectedDeadline: extract.Deadline(deadlineInput, now),
			DetectedLanguage: f.classifier.Language(combined),
			DetectedStatus:   extract.Status(combined),
			FetchedAt:        now,
		})
	}
	return out, nil
}
