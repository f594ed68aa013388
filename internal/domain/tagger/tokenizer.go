package tagger

import (
	"strings"
	"unicode"
)

// Token is a word extracted from text, in its original case, with the byte
// offset where it starts.
type Token struct {
	Text   string
	Offset int
}

// Tokenize extracts maximal runs of word characters and apostrophes.
// Apostrophes are kept inside a word ("don't") and trimmed from its edges
// ("'tis" -> "tis", "dogs'" -> "dogs"). Word characters are Unicode letters,
// numbers, nonspacing marks and underscore.
//
//	"Don't stop, dogs'!" -> ["Don't", "stop", "dogs"]
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}

	var tokens []Token
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		run := text[start:end]
		trimmed := strings.TrimLeft(run, "'")
		offset := start + len(run) - len(trimmed)
		trimmed = strings.TrimRight(trimmed, "'")
		if trimmed != "" {
			tokens = append(tokens, Token{Text: trimmed, Offset: offset})
		}
		start = -1
	}

	for i, r := range text {
		if isWordRune(r) || r == '\'' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	return tokens
}

// isWordRune reports whether r can be part of a word (apostrophes aside).
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}
