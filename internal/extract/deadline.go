// Package extract holds the heuristic text analysis: deadline dates,
// language and open/closed status. All of it is best-effort substring
// and pattern matching; a failed parse is an absent value, never an
// error.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"callwatch/internal/textutil"
)

// anchorPatterns capture the text following a phrase that announces a
// deadline, in Spanish and English. The capture is the candidate chunk.
var anchorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:fecha\s*l[ií]mite|cierre|hasta)\s*[:\-]?\s*(.+)`),
	regexp.MustCompile(`(?i)(?:deadline|due\s*date)\s*[:\-]?\s*(.+)`),
}

// strictDate matches explicit YYYY-MM-DD / YYYY/MM/DD dates with month
// 1-12, day 1-31 and a year starting with 20.
var strictDate = regexp.MustCompile(`\b(20\d{2})[-/](0?[1-9]|1[0-2])[-/](0?[1-9]|[12]\d|3[01])\b`)

// fuzzySliceRunes bounds how much of a candidate chunk the fuzzy parser
// gets to see.
const fuzzySliceRunes = 2000

// Deadline finds a plausible deadline date in free text and returns it
// as ISO YYYY-MM-DD, or "" when no confident date is found.
//
// Candidate chunks derived from anchor phrases are tried before the
// whole normalized text. Within a chunk an explicit date pattern wins
// over fuzzy parsing; an explicit date in a past year disqualifies the
// whole chunk and scanning moves on to the next candidate.
func Deadline(text string, now time.Time) string {
	t := textutil.Normalize(text)
	if t == "" {
		return ""
	}

	var candidates []string
	lower := strings.ToLower(t)
	for _, re := range anchorPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			candidates = append(candidates, m[1])
		}
	}
	candidates = append(candidates, t)

	for _, chunk := range candidates {
		chunk = textutil.Truncate(chunk, fuzzySliceRunes)

		if m := strictDate.FindStringSubmatch(chunk); m != nil {
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			if year >= now.Year() {
				return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			}
			// Fuzzy parsing would only resurrect the same stale date.
			continue
		}

		if d := fuzzyDate(chunk, now); d != "" {
			return d
		}
	}
	return ""
}

// fuzzyDate approximates fuzzy parsing over prose: dateparse accepts
// date strings, not sentences, so short token windows are scanned and
// the first parse inside a sane calendar range wins. PreferMonthFirst
// false gives ambiguous numeric dates a day-before-month reading.
func fuzzyDate(chunk string, now time.Time) string {
	words := strings.Fields(chunk)
	const maxWindow = 4

	for i := range words {
		for w := maxWindow; w >= 1; w-- {
			if i+w > len(words) {
				continue
			}
			frag := strings.Trim(strings.Join(words[i:i+w], " "), ".,;:()[]")
			if len(frag) < 6 || !containsDigit(frag) {
				continue
			}
			dt, err := dateparse.ParseAny(frag, dateparse.PreferMonthFirst(false))
			if err != nil {
				continue
			}
			year := dt.Year()
			if year < 2000 || year > 2100 || year < now.Year() {
				continue
			}
			return dt.Format("2006-01-02")
		}
	}
	return ""
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
