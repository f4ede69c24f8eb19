package models

// Mood classifications derived from a day's user messages.
const (
	MoodPositive = "positive"
	MoodNeutral  = "neutral"
	MoodNegative = "negative"
)

// DiarySummary is the derived per-day artifact stored as JSON at
// summary:<username>:<date>. It acts as a cache: regenerating for the same
// date and message set yields the same mood/tags, while the summary text may
// vary with the upstream generator.
type DiarySummary struct {
	Date       string   `json:"date"`
	Summary    string   `json:"summary"`
	Mood       string   `json:"mood,omitempty"`
	Highlights []string `json:"highlights"`
	Tags       []string `json:"tags"`
}

// TimelineEntry is a read-only view joining a day's message bucket with its
// summary, if one exists. It is assembled on read and never persisted.
type TimelineEntry struct {
	Date     string        `json:"date"`
	Messages []ChatMessage `json:"messages"`
	Summary  *DiarySummary `json:"summary,omitempty"`
}

// SearchResult is the answer to a free-text query over a user's diary.
type SearchResult struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}
