package similarity

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// typoCredit is how much of a shared word a typo pair is worth. It must
	// stay at or below 0.5: dropping a shared word can turn at most one new
	// typo pair on, and the effective overlap still has to fall.
	typoCredit = 0.5

	// Words shorter than this never pair as typos ("a" vs "i").
	typoMinRunes = 4
	// Minimum 1 - levenshtein/longest for two words to pair as a typo.
	typoMinSimilarity = 0.75

	// Ceiling for texts that differ after normalization.
	maxInexact = 99
)

// Score rates how close two pieces of card text are, from 0 (nothing in
// common) to 100 (identical after normalization). It is symmetric, returns 0
// whenever either side normalizes to the empty string or the two share no
// words, and never rises when a shared word is removed from either side.
func Score(a, b string) float64 {
	return scoreNormalized(Normalize(a), Normalize(b))
}

// scoreNormalized averages Jaccard and Dice over distinct words. Words one
// side has and the other lacks pair up as typos when their edit distance is
// small, each pair counting typoCredit of a shared word.
func scoreNormalized(na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	ta, tb := tokenSet(na), tokenSet(nb)
	shared := sharedCount(ta, tb)
	if shared == 0 {
		return 0
	}

	overlap := float64(shared) + typoCredit*float64(typoPairs(ta, tb))
	total := float64(len(ta) + len(tb))
	jaccard := overlap / (total - overlap)
	dice := 2 * overlap / total

	return clamp(100*(jaccard+dice)/2, 0, maxInexact)
}

// typoPairs counts the near-miss words between the unshared parts of a and b:
// the smaller of "unshared words of a with a near match in b" and the same
// count from b's side.
func typoPairs(a, b map[string]struct{}) int {
	ua, ub := unshared(a, b), unshared(b, a)
	if len(ua) == 0 || len(ub) == 0 {
		return 0
	}
	return min(countNear(ua, ub), countNear(ub, ua))
}

// unshared returns the words of a missing from b.
func unshared(a, b map[string]struct{}) []string {
	var out []string
	for w := range a {
		if _, ok := b[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

func countNear(from, to []string) int {
	n := 0
	for _, w := range from {
		for _, t := range to {
			if nearWord(w, t) {
				n++
				break
			}
		}
	}
	return n
}

// nearWord reports whether two distinct words look like a typo of each other.
func nearWord(a, b string) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la < typoMinRunes || lb < typoMinRunes {
		return false
	}
	return editSimilarity(a, b) >= typoMinSimilarity
}

// editSimilarity is 1 - levenshtein/longest, over runes.
func editSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
