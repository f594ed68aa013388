package tagger

import (
	"strings"

	"github.com/corey/cefrtag/internal/domain/vocab"
)

// Report groups one tagging call by level.
type Report struct {
	Text        string                   `json:"text"`
	TaggedWords map[vocab.Level][]string `json:"tagged_words"`
	Stats       ReportStats              `json:"stats"`

	Levels []vocab.Level `json:"-"` // level order of TaggedWords
}

// ReportStats counts display strings. Levels with no matches are omitted from ByLevel.
type ReportStats struct {
	TotalTagged int                 `json:"total_tagged"`
	ByLevel     map[vocab.Level]int `json:"by_level"`
}

// Display renders an occurrence for level listings: the token alone when it
// is the entry itself (ignoring case), "token -> entry" otherwise.
func Display(o Occurrence) string {
	if strings.EqualFold(o.Token, o.Entry) {
		return o.Token
	}
	return o.Token + " -> " + o.Entry
}

// BuildReport groups occurrences into levels. Every level in levels gets a
// (possibly empty) list; occurrences of other levels are dropped. Display
// strings are deduplicated per level and keep first-seen order.
func BuildReport(text string, levels []vocab.Level, occs []Occurrence) Report {
	r := Report{
		Text:        text,
		TaggedWords: make(map[vocab.Level][]string, len(levels)),
		Stats:       ReportStats{ByLevel: make(map[vocab.Level]int)},
		Levels:      levels,
	}
	seen := make(map[vocab.Level]map[string]bool, len(levels))
	for _, l := range levels {
		r.TaggedWords[l] = []string{}
		seen[l] = make(map[string]bool)
	}

	for _, o := range occs {
		shown, ok := seen[o.Level]
		if !ok {
			continue
		}
		d := Display(o)
		if shown[d] {
			continue
		}
		shown[d] = true
		r.TaggedWords[o.Level] = append(r.TaggedWords[o.Level], d)
	}

	for _, l := range levels {
		if n := len(r.TaggedWords[l]); n > 0 {
			r.Stats.ByLevel[l] = n
			r.Stats.TotalTagged += n
		}
	}
	return r
}
