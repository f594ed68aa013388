package ports

// PhraseMatch is one occurrence of a phrase key in scanned text.
type PhraseMatch struct {
	Key   string // canonical phrase key that matched
	Start int    // byte offset start (inclusive)
	End   int    // byte offset end (exclusive)
}

// PhraseScanner finds known multi-word keys in already-lowercased text.
// Implementations report overlapping matches and are safe for concurrent use.
type PhraseScanner interface {
	Scan(lowerText []byte) []PhraseMatch
}
