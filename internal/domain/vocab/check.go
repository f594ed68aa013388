package vocab

import "strings"

// CheckResult answers whether a single word or phrase is in the vocabulary.
type CheckResult struct {
	Word        string `json:"word"`
	Found       bool   `json:"found"`
	Occurrences []Ref  `json:"occurrences"`
}

// CheckWord matches a word against the raw entries of src, expanding slash
// alternatives and parenthetical main words on the fly instead of consulting
// a compiled index. Each (entry, level) pair is reported once, in source order.
func CheckWord(src Source, word string) CheckResult {
	res := CheckResult{Word: word, Occurrences: []Ref{}}
	want := Canonical(word)
	if want == "" {
		return res
	}

	for _, le := range src {
		for _, entry := range le.Entries {
			if entryMatches(entry, want) {
				res.Occurrences = append(res.Occurrences, Ref{Entry: entry, Level: le.Level})
			}
		}
	}
	res.Found = len(res.Occurrences) > 0
	return res
}

func entryMatches(entry, want string) bool {
	if Canonical(entry) == want {
		return true
	}
	if strings.Contains(entry, "/") {
		for _, v := range ExpandSlash(entry) {
			if Canonical(v) == want {
				return true
			}
		}
	}
	if strings.Contains(entry, "(") {
		if main, ok := MainWord(entry); ok && Canonical(main) == want {
			return true
		}
	}
	return false
}
