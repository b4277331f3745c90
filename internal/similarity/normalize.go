package similarity

import (
	"strings"
	"unicode"
)

// Normalize folds case, drops apostrophes, turns every other non letter or
// digit into a space and collapses whitespace, so "Keep it, down." and
// "keep it down" compare equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenSet returns the distinct words of a normalized string.
func tokenSet(normalized string) map[string]struct{} {
	words := strings.Fields(normalized)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func sharedCount(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
