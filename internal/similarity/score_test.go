package similarity

import (
	"math"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Keep LEFT shoulder,   down. ", "keep left shoulder down"},
		{"Don't drop the free-leg!", "dont drop the free leg"},
		{"Edge\tcheck\non exit", "edge check on exit"},
		{",.;", ""},
		{"", ""},
		{"Sauts à l’arrière", "sauts à larrière"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScore_Reflexive(t *testing.T) {
	for _, s := range []string{
		"Keep left shoulder down",
		"x",
		"Bend your knees slightly, then push.",
		"Стой на ребре",
	} {
		if got := Score(s, s); got != 100 {
			t.Errorf("Score(%q, itself) = %v, want 100", s, got)
		}
	}
}

func TestScore_NormalizationTolerant(t *testing.T) {
	got := Score("Keep left shoulder down.", "keep  LEFT shoulder, down")
	if got != 100 {
		t.Errorf("expected 100 after normalization, got %v", got)
	}
}

func TestScore_Empty(t *testing.T) {
	tests := [][2]string{
		{"abc", ""},
		{"", "abc"},
		{"", ""},
		{"   ", "keep"},
		{"keep", ",.;"},
	}
	for _, tt := range tests {
		if got := Score(tt[0], tt[1]); got != 0 {
			t.Errorf("Score(%q, %q) = %v, want 0", tt[0], tt[1], got)
		}
	}
}

func TestScore_DisjointVocabulary(t *testing.T) {
	if got := Score("Bend your knees slightly", "Keep left shoulder down"); got != 0 {
		t.Errorf("expected 0 for disjoint vocabularies, got %v", got)
	}
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Keep left shoulder down", "Keep left shoulder down and back"},
		{"keep left sholder down", "Keep left shoulder down"},
		{"down shoulder left keep", "keep left shoulder down"},
		{"Bend your knees slightly", "bend your knees slightly more"},
		{"a", "a b c d e f g"},
		{"", "anything"},
	}
	for _, p := range pairs {
		ab, ba := Score(p[0], p[1]), Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score not symmetric for %q / %q: %v vs %v", p[0], p[1], ab, ba)
		}
	}
}

func TestScore_Range(t *testing.T) {
	pairs := [][2]string{
		{"a", "a b c d e f g"},
		{"keep", "keep keep keep keep"},
		{"1 2 3", "3 2 1"},
	}
	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0 || got > 100 || math.IsNaN(got) {
			t.Errorf("Score(%q, %q) = %v out of range", p[0], p[1], got)
		}
	}
}

func TestScore_ReorderedWords(t *testing.T) {
	got := Score("down shoulder left keep", "keep left shoulder down")
	if got < 60 || got >= 100 {
		t.Errorf("reordered words: got %v, want in [60,100)", got)
	}
}

func TestScore_Typo(t *testing.T) {
	got := Score("keep left sholder down", "Keep left shoulder down")
	if got < 70 || got >= 100 {
		t.Errorf("single typo: got %v, want in [70,100)", got)
	}
}

func TestScore_MonotonicInSharedVocabulary(t *testing.T) {
	base := "keep left shoulder down and back"
	drafts := []string{
		"keep left shoulder down and back",
		"keep left shoulder down",
		"keep left shoulder",
		"keep left",
		"keep",
		"jump",
	}
	prev := math.Inf(1)
	for _, d := range drafts {
		got := Score(d, base)
		if got > prev {
			t.Errorf("Score(%q) = %v rose above previous %v", d, got, prev)
		}
		prev = got
	}
	if prev != 0 {
		t.Errorf("no shared words should score 0, got %v", prev)
	}
}

func TestScore_ScenarioValues(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		// jaccard 4/6, dice 8/10
		{"Keep left shoulder down", "Keep left shoulder down and back", 220.0 / 3},
		// 3 shared + half a typo pair over 4+4 words
		{"keep left sholder down", "Keep left shoulder down", 100 * (3.5/4.5 + 7.0/8) / 2},
		// same words, different order
		{"down shoulder left keep", "keep left shoulder down", 99},
	}
	for _, tt := range tests {
		if got := Score(tt.a, tt.b); math.Abs(got-tt.want) > 0.001 {
			t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// Dropping any shared word, in any order, must never raise the score.
func TestScore_MonotonicUnderSharedWordRemoval(t *testing.T) {
	pairs := []struct{ draft, base string }{
		{"back keep left shoulder down", "keep left shoulder down and back"},
		{"down and back keep left shoulder", "keep left shoulder down and back"},
		{"keep left sholder shoulder down", "keep left shoulder down and back"},
		{"arms bend knees slightly reach", "bend your knees slightly and reach"},
		{"edge push knee bend arms", "push knee bend arms reach"},
		{"spot the landing edge", "landing spot edge check the"},
	}
	for _, p := range pairs {
		words := strings.Fields(p.draft)
		baseSet := tokenSet(Normalize(p.base))
		var shared []int
		for i, w := range words {
			if _, ok := baseSet[w]; ok {
				shared = append(shared, i)
			}
		}
		// every subset of shared positions, compared with each one-word-larger subset
		for mask := 0; mask < 1<<len(shared); mask++ {
			cur := Score(dropWords(words, shared, mask), p.base)
			for bit := 0; bit < len(shared); bit++ {
				if mask&(1<<bit) != 0 {
					continue
				}
				next := dropWords(words, shared, mask|1<<bit)
				if got := Score(next, p.base); got > cur+1e-9 {
					t.Errorf("base %q: dropping %q from %q raised %v to %v",
						p.base, words[shared[bit]], dropWords(words, shared, mask), cur, got)
				}
				// the other argument order must agree
				if got := Score(p.base, next); got > cur+1e-9 {
					t.Errorf("base %q: reversed arguments rose for %q", p.base, next)
				}
			}
		}
	}
}

// dropWords removes the words at positions shared[i] for every bit i set in mask.
func dropWords(words []string, shared []int, mask int) string {
	skip := make(map[int]bool)
	for i, pos := range shared {
		if mask&(1<<i) != 0 {
			skip[pos] = true
		}
	}
	var kept []string
	for i, w := range words {
		if !skip[i] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func TestNearWord(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"sholder", "shoulder", true},
		{"knees", "kness", true},
		{"keep", "stays", false},
		{"a", "i", false},
		{"spin", "spot", false},
	}
	for _, tt := range tests {
		if got := nearWord(tt.a, tt.b); got != tt.want {
			t.Errorf("nearWord(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
