// Package vocab compiles a CEFR-graded vocabulary source into a lookup index.
//
// Authored entries are irregular ("a/an", "step over/in/on/out of",
// "stick (piece of wood)", "forward(s)"), so each entry expands into one or
// more canonical keys. The index maps every key to the (entry, level) pairs it
// can stand for. A key reachable from several entries or levels keeps all of
// them; nothing is overwritten.
//
// An Index is immutable once Compile returns and may be shared by any number
// of goroutines without locking. Rebuilding means compiling a new Index.
package vocab

import (
	"sort"
	"strings"
)

// Ref identifies the authored entry and level a canonical key resolves to.
type Ref struct {
	Entry string `json:"form"`
	Level Level  `json:"level"`
}

// Stats summarizes the raw source behind an index.
type Stats struct {
	Levels  []Level       `json:"levels"`
	ByLevel map[Level]int `json:"by_level"`
	Total   int           `json:"total"`
}

// Index is the compiled, read-only vocabulary.
type Index struct {
	source  Source
	keys    map[string][]Ref // canonical key -> refs in discovery order
	phrases []string         // multi-word keys, sorted

	entries   int // surface entries across all levels
	refs      int // key -> ref mappings (includes cross-level duplicates)
	malformed int // entries that produced no key, or only part of their keys
}

// Compile builds an Index from a source. The result depends only on the
// source's own level and entry order, so compiling the same source twice
// yields identical indexes. Malformed entries never fail compilation; they are
// counted and stay listed under their level.
func Compile(src Source) *Index {
	idx := &Index{
		source: src.Clone(),
		keys:   make(map[string][]Ref),
	}

	for _, le := range idx.source {
		for _, entry := range le.Entries {
			idx.entries++
			keys, malformed := Variants(entry)
			if malformed {
				idx.malformed++
			}
			for _, key := range keys {
				idx.add(key, Ref{Entry: entry, Level: le.Level})
			}
		}
	}

	for key := range idx.keys {
		if strings.Contains(key, " ") {
			idx.phrases = append(idx.phrases, key)
		}
	}
	sort.Strings(idx.phrases)

	return idx
}

// add merges ref into key's list. An identical (entry, level) pair under the
// same key is stored once.
func (x *Index) add(key string, ref Ref) {
	for _, existing := range x.keys[key] {
		if existing == ref {
			return
		}
	}
	x.keys[key] = append(x.keys[key], ref)
	x.refs++
}

// Lookup returns the refs for a canonical key, or nil. The returned slice is
// shared with the index and must not be modified.
func (x *Index) Lookup(key string) []Ref {
	if x == nil {
		return nil
	}
	return x.keys[key]
}

// Keys returns every canonical key, sorted.
func (x *Index) Keys() []string {
	if x == nil {
		return nil
	}
	keys := make([]string, 0, len(x.keys))
	for k := range x.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PhraseKeys returns a copy of the canonical keys that contain a space, sorted.
func (x *Index) PhraseKeys() []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.phrases...)
}

// EntryCount is the number of surface entries across all levels.
func (x *Index) EntryCount() int {
	if x == nil {
		return 0
	}
	return x.entries
}

// KeyCount is the number of unique canonical keys.
func (x *Index) KeyCount() int {
	if x == nil {
		return 0
	}
	return len(x.keys)
}

// RefCount is the number of key -> ref mappings, cross-level duplicates
// included.
func (x *Index) RefCount() int {
	if x == nil {
		return 0
	}
	return x.refs
}

// MalformedCount is the number of entries that produced no key, or only part
// of their keys.
func (x *Index) MalformedCount() int {
	if x == nil {
		return 0
	}
	return x.malformed
}

// Empty reports whether the index has no keys at all.
func (x *Index) Empty() bool {
	return x == nil || len(x.keys) == 0
}

// Levels returns the source's levels in authored order.
func (x *Index) Levels() []Level {
	if x == nil {
		return nil
	}
	return x.source.Levels()
}

// LevelEntries returns the raw entries of a level, malformed ones included.
func (x *Index) LevelEntries(level Level) ([]string, error) {
	if x == nil {
		return nil, ErrUnknownLevel
	}
	return x.source.Entries(level)
}

// Source returns the raw source the index was compiled from.
func (x *Index) Source() Source {
	if x == nil {
		return nil
	}
	return x.source
}

// Stats counts entries per level. Total is always the sum of ByLevel.
func (x *Index) Stats() Stats {
	st := Stats{ByLevel: make(map[Level]int)}
	if x == nil {
		return st
	}
	for _, le := range x.source {
		st.Levels = append(st.Levels, le.Level)
		st.ByLevel[le.Level] += len(le.Entries)
		st.Total += len(le.Entries)
	}
	return st
}
