// Package digest renders the stored snapshot as a Markdown summary.
package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"callwatch/internal/call"
)

const (
	upcomingLimit = 15
	recentLimit   = 20
)

// Build renders the digest for the given snapshot. The snapshot is
// expected in store order (nearest deadline first); the upcoming
// section reuses that order, the recent section re-sorts by discovery
// time. The upcoming section is omitted entirely when no item carries
// a deadline.
func Build(snapshot []call.Stored, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Calls Digest (auto)\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.UTC().Format(time.RFC3339))

	if len(snapshot) == 0 {
		b.WriteString("No items collected yet.\n")
		return b.String()
	}

	var upcoming []call.Stored
	for _, st := range snapshot {
		if st.DetectedDeadline == "" {
			continue
		}
		upcoming = append(upcoming, st)
		if len(upcoming) >= upcomingLimit {
			break
		}
	}
	if len(upcoming) > 0 {
		b.WriteString("## Upcoming deadlines\n\n")
		for _, st := range upcoming {
			fmt.Fprintf(&b, "- **%s** (%s) — %s  \n  Source: %s  \n  Link: %s\n",
				st.DetectedDeadline, status(st), st.Title, st.Source, st.URL)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recently found\n\n")
	recent := make([]call.Stored, len(snapshot))
	copy(recent, snapshot)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].FirstSeenAt.After(recent[j].FirstSeenAt)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	for _, st := range recent {
		deadline := st.DetectedDeadline
		if deadline == "" {
			deadline = "—"
		}
		fmt.Fprintf(&b, "- **Deadline:** %s (%s) — %s  \n  Source: %s  \n  Link: %s\n",
			deadline, status(st), st.Title, st.Source, st.URL)
	}

	return b.String()
}

func status(st call.Stored) string {
	if st.DetectedStatus == "" {
		return call.StatusUnknown
	}
	return st.DetectedStatus
}
