package vocab

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// slashSpaceRe matches a slash with any surrounding whitespace ("doctor / Dr").
var slashSpaceRe = regexp.MustCompile(`\s*/\s*`)

// optionalSuffix marks an entry whose plural form is also matchable ("forward(s)").
const optionalSuffix = "(s)"

// Canonical converts a surface form into an index key: trimmed, lowercased, NFC.
func Canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return norm.NFC.String(s)
}

// ExpandSlash returns the surface alternatives of a slash entry.
//
//	"a/an"                   -> ["a", "an"]
//	"doctor / Dr"            -> ["doctor", "Dr"]
//	"step over/in/on/out of" -> ["step over of", "step in of", "step on of", "step out of",
//	                             "step over", "step in", "step on"]
//
// When the slash sits inside one word of a phrase, that word is the variable
// segment and the surrounding words are kept. Trailing words are substituted
// literally for every option and, in addition, read as belonging to the last
// option only. Empty alternatives are dropped.
func ExpandSlash(entry string) []string {
	collapsed := slashSpaceRe.ReplaceAllString(strings.TrimSpace(entry), "/")

	var out []string
	if strings.Contains(collapsed, " ") {
		parts := strings.Fields(collapsed)
		for i, part := range parts {
			if !strings.Contains(part, "/") {
				continue
			}
			prefix := parts[:i]
			suffix := parts[i+1:]
			options := nonEmpty(strings.Split(part, "/"))
			for _, opt := range options {
				out = appendVariant(out, joinWords(prefix, opt, suffix))
			}
			if len(suffix) > 0 && len(options) > 0 {
				for _, opt := range options[:len(options)-1] {
					out = appendVariant(out, joinWords(prefix, opt, nil))
				}
			}
			return out
		}
	}

	for _, alt := range strings.Split(collapsed, "/") {
		out = appendVariant(out, strings.TrimSpace(alt))
	}
	return out
}

// MainWord returns the matchable text before the first "(" of a
// parenthetical entry. ok is false for malformed entries: "(" at the start,
// no closing ")" after it, or nothing but whitespace before it.
func MainWord(entry string) (main string, ok bool) {
	open := strings.Index(entry, "(")
	if open < 0 {
		return strings.TrimSpace(entry), entry != ""
	}
	if open == 0 || !strings.Contains(entry[open:], ")") {
		return "", false
	}
	main = strings.TrimSpace(entry[:open])
	return main, main != ""
}

// Variants returns every canonical key an entry can be matched by, in
// generation order without duplicates. malformed reports that the entry (or
// part of it) could not be turned into a key.
func Variants(entry string) (keys []string, malformed bool) {
	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return nil, true
	}

	var forms []string
	switch {
	case strings.Contains(trimmed, "/") && !strings.Contains(trimmed, "("):
		forms = ExpandSlash(trimmed)
		malformed = hasEmptyAlternative(trimmed)

	case strings.Contains(trimmed, "("):
		main, ok := MainWord(trimmed)
		if !ok {
			return nil, true
		}
		forms = append(forms, main)
		if strings.HasSuffix(trimmed, optionalSuffix) {
			base := strings.ReplaceAll(trimmed, optionalSuffix, "")
			forms = append(forms, base, base+"s")
		}

	default:
		forms = []string{trimmed}
	}

	seen := make(map[string]bool, len(forms))
	for _, f := range forms {
		key := Canonical(f)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		malformed = true
	}
	return keys, malformed
}

// hasEmptyAlternative reports a slash with nothing on one side ("a/", "x//y").
func hasEmptyAlternative(entry string) bool {
	collapsed := slashSpaceRe.ReplaceAllString(entry, "/")
	for _, word := range strings.Fields(collapsed) {
		if !strings.Contains(word, "/") {
			continue
		}
		for _, opt := range strings.Split(word, "/") {
			if opt == "" {
				return true
			}
		}
	}
	return false
}

func nonEmpty(opts []string) []string {
	out := opts[:0:0]
	for _, o := range opts {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func joinWords(prefix []string, word string, suffix []string) string {
	words := make([]string, 0, len(prefix)+1+len(suffix))
	words = append(words, prefix...)
	if word != "" {
		words = append(words, word)
	}
	words = append(words, suffix...)
	return strings.Join(words, " ")
}

func appendVariant(out []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return out
	}
	for _, existing := range out {
		if existing == v {
			return out
		}
	}
	return append(out, v)
}
