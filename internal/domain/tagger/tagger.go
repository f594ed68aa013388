// Package tagger finds controlled-vocabulary words in free text.
//
// Tag tokenizes the text, looks every token up in a compiled vocab.Index and
// returns one Occurrence per (canonical token, entry, level) triple, ordered by
// where the token first appears. "Car" and "car" are the same token; the first
// spelling seen is the one reported. Tagging is a pure function of the text
// and the index.
package tagger

import (
	"sort"
	"strings"

	"github.com/corey/cefrtag/internal/domain/vocab"
	"github.com/corey/cefrtag/internal/ports"
)

// Occurrence is one resolved match of a text token against a vocabulary entry.
type Occurrence struct {
	Token string      `json:"word"`
	Entry string      `json:"tagged_as"`
	Level vocab.Level `json:"level"`
}

// Option configures a Tagger.
type Option func(*Tagger)

// WithTokenOffsets orders occurrences by each token's real byte offset
// instead of the first substring match of the token in the lowercased text.
func WithTokenOffsets() Option {
	return func(t *Tagger) { t.tokenOffsets = true }
}

// WithPhrases enables matching of multi-word keys ("turn off", "step out of").
// The scanner must have been built from idx.PhraseKeys(). Without it phrase
// keys are indexed but never matched, since tokens are single words.
func WithPhrases(scanner ports.PhraseScanner) Option {
	return func(t *Tagger) { t.phrases = scanner }
}

// Tagger tags text against one immutable index. Safe for concurrent use.
type Tagger struct {
	idx          *vocab.Index
	phrases      ports.PhraseScanner
	tokenOffsets bool
}

// New creates a Tagger over idx. A nil or empty index tags nothing.
func New(idx *vocab.Index, opts ...Option) *Tagger {
	t := &Tagger{idx: idx}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Index returns the index the tagger reads from.
func (t *Tagger) Index() *vocab.Index {
	return t.idx
}

// positioned carries the ordering key until the result is returned.
type positioned struct {
	Occurrence
	pos int
}

// dedupKey identifies an occurrence regardless of the token's case.
type dedupKey struct {
	form  string
	entry string
	level vocab.Level
}

// Tag returns the deduplicated occurrences found in text, ordered by position.
// Ties keep discovery order. Empty text or an empty index yields an empty,
// non-nil slice.
func (t *Tagger) Tag(text string) []Occurrence {
	if text == "" || t.idx.Empty() {
		return []Occurrence{}
	}

	lower := strings.ToLower(text)
	seen := make(map[dedupKey]bool)
	var found []positioned

	emit := func(form, token string, offset int, refs []vocab.Ref) {
		for _, ref := range refs {
			k := dedupKey{form: form, entry: ref.Entry, level: ref.Level}
			if seen[k] {
				continue
			}
			seen[k] = true

			pos := offset
			if !t.tokenOffsets {
				pos = strings.Index(lower, strings.ToLower(token))
			}
			found = append(found, positioned{
				Occurrence: Occurrence{Token: token, Entry: ref.Entry, Level: ref.Level},
				pos:        pos,
			})
		}
	}

	tokens := Tokenize(text)
	for _, tok := range tokens {
		form := vocab.Canonical(tok.Text)
		if refs := t.idx.Lookup(form); len(refs) > 0 {
			emit(form, tok.Text, tok.Offset, refs)
		}
	}

	if t.phrases != nil && len(tokens) > 1 {
		f := fold(text, tokens)
		for _, m := range t.phrases.Scan([]byte(f.text)) {
			first, ok := f.starts[m.Start]
			if !ok {
				continue
			}
			last, ok := f.ends[m.End]
			if !ok || last < first {
				continue
			}
			refs := t.idx.Lookup(m.Key)
			if len(refs) == 0 {
				continue
			}
			from := tokens[first].Offset
			to := tokens[last].Offset + len(tokens[last].Text)
			emit(m.Key, text[from:to], from, refs)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].pos < found[j].pos
	})

	out := make([]Occurrence, len(found))
	for i, p := range found {
		out[i] = p.Occurrence
	}
	return out
}

// folded is the text the phrase scanner reads: every token in canonical form,
// separators lowercased. starts and ends map byte offsets in the folded text
// back to token indexes, so a phrase only counts when it spans whole tokens
// and its position is reported in the caller's text.
type folded struct {
	text   string
	starts map[int]int
	ends   map[int]int
}

func fold(text string, tokens []Token) folded {
	f := folded{
		starts: make(map[int]int, len(tokens)),
		ends:   make(map[int]int, len(tokens)),
	}
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for i, tok := range tokens {
		b.WriteString(strings.ToLower(text[prev:tok.Offset]))
		f.starts[b.Len()] = i
		b.WriteString(vocab.Canonical(tok.Text))
		f.ends[b.Len()] = i
		prev = tok.Offset + len(tok.Text)
	}
	b.WriteString(strings.ToLower(text[prev:]))
	f.text = b.String()
	return f
}
