package engine

import "strings"

// MatchTier identifies which matching strategy landed a replacement.
type MatchTier int

const (
	MatchNone MatchTier = iota
	MatchExact
	MatchCaseInsensitive
	MatchPartialWord
)

func (t MatchTier) String() string {
	switch t {
	case MatchExact:
		return "exact"
	case MatchCaseInsensitive:
		return "case_insensitive"
	case MatchPartialWord:
		return "partial_word"
	}
	return "none"
}

// ReplaceText applies the three-tier match to one text block and returns
// the rewritten text, the tier that landed, and whether anything matched.
// Tiers are tried strictly in order; only the first hit rewrites, and a
// miss returns the input unchanged.
//
// Tier 1 replaces the first exact occurrence of find. Tier 2 locates find
// case-insensitively and replaces the original-cased span. Tier 3 fires
// when every word of find appears among the text's words (case-insensitive
// token equality): it replaces the cased span of the LAST find word with
// the whole replace value. The last-word tie-break is inherited behavior
// and kept as is.
func ReplaceText(text, find, replace string) (string, MatchTier, bool) {
	if find == "" || text == "" {
		return text, MatchNone, false
	}

	if idx := strings.Index(text, find); idx >= 0 {
		return text[:idx] + replace + text[idx+len(find):], MatchExact, true
	}

	if idx := foldIndex(text, find); idx >= 0 {
		return text[:idx] + replace + text[idx+len(find):], MatchCaseInsensitive, true
	}

	words := strings.Fields(strings.ToLower(find))
	if len(words) == 0 {
		return text, MatchNone, false
	}
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(text)) {
		tokens[t] = true
	}
	for _, w := range words {
		if !tokens[w] {
			return text, MatchNone, false
		}
	}
	last := words[len(words)-1]
	idx := foldIndex(text, last)
	if idx < 0 {
		return text, MatchNone, false
	}
	return text[:idx] + replace + text[idx+len(last):], MatchPartialWord, true
}

// foldIndex returns the byte offset of the first case-insensitive
// occurrence of sub in s, or -1. The window compare keeps the offset valid
// against the original string so the cased span can be replaced in place.
func foldIndex(s, sub string) int {
	if sub == "" || len(sub) > len(s) {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// ContainsFold reports whether s contains sub case-insensitively. Used by
// delete filters.
func ContainsFold(s, sub string) bool {
	return sub == "" || foldIndex(s, sub) >= 0
}
