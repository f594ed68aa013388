package vocab

import (
	"errors"
	"strings"
)

// Level is a CEFR proficiency band as authored in the vocabulary source.
type Level string

const (
	A1 Level = "A1"
	A2 Level = "A2"
	B1 Level = "B1"
	B2 Level = "B2"
	C1 Level = "C1"
)

// DefaultLevels is the fixed level set, easiest first.
var DefaultLevels = []Level{A1, A2, B1, B2, C1}

var (
	// ErrUnknownLevel is returned when a caller asks for a level the source does not define.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrSourceUnavailable marks a vocabulary source that could not be loaded.
	// Callers degrade to EmptySource instead of failing.
	ErrSourceUnavailable = errors.New("vocabulary source unavailable")
)

// ParseLevel normalizes a caller-supplied level name ("b1 " -> "B1").
// It does not check membership; that depends on the source.
func ParseLevel(s string) Level {
	return Level(strings.ToUpper(strings.TrimSpace(s)))
}

// LevelEntries holds the surface entries authored for one level, in source order.
type LevelEntries struct {
	Level   Level
	Entries []string
}

// Source is the raw, already-parsed vocabulary: levels in authored order,
// each with its surface entries in authored order.
type Source []LevelEntries

// EmptySource returns every default level with no entries. It is the
// fallback when the real source cannot be loaded.
func EmptySource() Source {
	src := make(Source, 0, len(DefaultLevels))
	for _, l := range DefaultLevels {
		src = append(src, LevelEntries{Level: l, Entries: []string{}})
	}
	return src
}

// Levels returns the level names in source order.
func (s Source) Levels() []Level {
	levels := make([]Level, 0, len(s))
	for _, le := range s {
		levels = append(levels, le.Level)
	}
	return levels
}

// Entries returns the entries for a level, or ErrUnknownLevel.
// A defined level with no entries returns an empty, non-nil slice.
func (s Source) Entries(level Level) ([]string, error) {
	for _, le := range s {
		if le.Level == level {
			if le.Entries == nil {
				return []string{}, nil
			}
			return le.Entries, nil
		}
	}
	return nil, ErrUnknownLevel
}

// Len returns the total number of surface entries across all levels.
func (s Source) Len() int {
	n := 0
	for _, le := range s {
		n += len(le.Entries)
	}
	return n
}

// Clone returns a deep copy so an index never aliases caller-owned slices.
func (s Source) Clone() Source {
	out := make(Source, len(s))
	for i, le := range s {
		entries := make([]string, len(le.Entries))
		copy(entries, le.Entries)
		out[i] = LevelEntries{Level: le.Level, Entries: entries}
	}
	return out
}
