// Package ahocorasick implements ports.PhraseScanner with an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching,
// so every multi-word vocabulary key is found in a single pass over the text.
package ahocorasick

import (
	"sync"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/cefrtag/internal/ports"
)

// PhraseScanner finds phrase keys in lowercased text, with byte offsets.
type PhraseScanner struct {
	mu        sync.Mutex // the automaton's iterators share prefilter state
	automaton aho.AhoCorasick
	patterns  []string
}

// NewPhraseScanner builds a scanner from canonical phrase keys.
// An empty key list yields a scanner that never matches.
func NewPhraseScanner(keys []string) *PhraseScanner {
	p := make([]string, len(keys))
	copy(p, keys)
	s := &PhraseScanner{patterns: p}
	if len(p) == 0 {
		return s
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	s.automaton = builder.Build(p)
	return s
}

// Scan returns every (possibly overlapping) key occurrence in lowerText.
func (s *PhraseScanner) Scan(lowerText []byte) []ports.PhraseMatch {
	if len(s.patterns) == 0 || len(lowerText) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	iter := s.automaton.IterOverlappingByte(lowerText)
	var matches []ports.PhraseMatch
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		matches = append(matches, ports.PhraseMatch{
			Key:   s.patterns[m.Pattern()],
			Start: m.Start(),
			End:   m.End(),
		})
	}
	return matches
}

// PatternCount returns the number of phrase keys in the automaton.
func (s *PhraseScanner) PatternCount() int {
	return len(s.patterns)
}
