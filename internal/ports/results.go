package ports

import "time"

// StatsResult is the vocabulary-wide statistics answer. VocabularyStats holds
// one count per level plus a "total" key.
type StatsResult struct {
	VocabularyStats map[string]int `json:"vocabulary_stats"`
	Levels          []string       `json:"levels"`
	TotalWords      int            `json:"total_words"`
}

// LevelResult lists the first entries of one level.
type LevelResult struct {
	Level     string   `json:"level"`
	WordCount int      `json:"word_count"`
	Words     []string `json:"words"`
	Message   string   `json:"message"`
}

// Health states.
const (
	HealthOK       = "ok"       // index compiled from a real source
	HealthDegraded = "degraded" // source unavailable, serving an empty index
	HealthLoading  = "loading"  // no index published yet
)

// HealthResult reports whether an index is loaded, so callers can tell
// "no matches" apart from "nothing to match against".
type HealthResult struct {
	Status     string    `json:"status"`
	Ready      bool      `json:"ready"`
	Source     string    `json:"source"`
	Error      string    `json:"error,omitempty"`
	Entries    int       `json:"entries"`
	Keys       int       `json:"keys"`
	Malformed  int       `json:"malformed"`
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at,omitzero"`
	Uptime     string    `json:"uptime,omitempty"`
}
