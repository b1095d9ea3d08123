// Package call defines the unit record shared by fetchers, store and
// reporting.
package call

import "time"

// Language labels assigned by the language classifier.
const (
	LangES      = "es"
	LangEN      = "en"
	LangMixed   = "mixed"
	LangUnknown = "unknown"
)

// Status labels assigned by the status classifier.
const (
	StatusOpen    = "open"
	StatusClosed  = "closed"
	StatusUnknown = "unknown"
)

// Call is a single funding/grant announcement observed from a source.
type Call struct {
	Source           string
	Title            string
	URL              string
	Snippet          string
	DetectedDeadline string // ISO YYYY-MM-DD, empty when no confident date was found
	DetectedLanguage string // es | en | mixed | unknown
	DetectedStatus   string // open | closed | unknown
	FetchedAt        time.Time
}

// Stored is a Call plus its stable identity and insertion time. ID is a
// pure function of URL; FirstSeenAt is set once and never updated.
type Stored struct {
	Call
	ID          string
	FirstSeenAt time.Time
}
