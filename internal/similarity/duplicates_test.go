package similarity

import (
	"encoding/json"
	"errors"
	"testing"

	"skatelog/trainlog/internal/cards"
)

func card(id, content, deck string, created int64) cards.CardWithContext {
	return cards.CardWithContext{
		Card: cards.Card{ID: id, Content: content, CreatedAt: created},
		DeckContext: cards.DeckContext{
			DeckID:       "deck-" + deck,
			DeckName:     deck,
			SectionID:    "sec-" + deck,
			SectionTitle: "Reminders",
			Discipline:   "singles",
		},
	}
}

func sampleCandidates() []cards.CardWithContext {
	return []cards.CardWithContext{
		card("a", "Keep left shoulder down and back", "Jumps", 100),
		card("b", "Bend your knees slightly", "Jumps", 200),
		card("c", "keep left sholder down", "Spins", 300),
		card("d", "Left shoulder stays down", "Spins", 400),
		card("e", "Spot the landing", "Footwork", 500),
	}
}

func ids(results []SimilarityResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.CardID
	}
	return out
}

func TestFindSimilar_Scenario(t *testing.T) {
	candidates := []cards.CardWithContext{
		card("match", "Keep left shoulder down and back", "Jumps", 1),
		card("other", "Bend your knees slightly", "Jumps", 2),
	}
	results, err := FindSimilar("Keep left shoulder down", candidates, FindOptions{Threshold: 70, MinLength: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %v", len(results), ids(results))
	}
	r := results[0]
	if r.CardID != "match" || r.Similarity < 70 {
		t.Errorf("unexpected result: %+v", r)
	}
	if r.DeckName != "Jumps" || r.DeckID != "deck-Jumps" || r.SectionID != "sec-Jumps" || r.SectionTitle != "Reminders" || r.CardDate != 1 {
		t.Errorf("result missing context: %+v", r)
	}
}

func TestFindSimilar_NeverBelowThreshold(t *testing.T) {
	for _, threshold := range []float64{0, 25, 50, 60, 70, 85, 100} {
		results, err := FindSimilar("keep left shoulder down", sampleCandidates(), FindOptions{Threshold: threshold})
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range results {
			if r.Similarity < threshold {
				t.Errorf("threshold %v: %s scored %v", threshold, r.CardID, r.Similarity)
			}
		}
	}
}

func TestFindSimilar_MonotonicThreshold(t *testing.T) {
	thresholds := []float64{0, 20, 40, 60, 70, 80, 100}
	var prev map[string]bool
	for _, threshold := range thresholds {
		results, err := FindSimilar("keep left shoulder down", sampleCandidates(), FindOptions{Threshold: threshold})
		if err != nil {
			t.Fatal(err)
		}
		cur := make(map[string]bool)
		for _, r := range results {
			cur[r.CardID] = true
			if prev != nil && !prev[r.CardID] {
				t.Errorf("threshold %v returned %s missing at lower threshold", threshold, r.CardID)
			}
		}
		prev = cur
	}
}

func TestFindSimilar_SortedBySimilarity(t *testing.T) {
	results, err := FindSimilar("keep left shoulder down", sampleCandidates(), FindOptions{Threshold: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) < 2 {
		t.Fatalf("expected several results, got %v", ids(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results out of order at %d: %v > %v", i, results[i].Similarity, results[i-1].Similarity)
		}
	}
	if results[0].CardID != "c" {
		t.Errorf("expected typo variant first, got %s", results[0].CardID)
	}
}

func TestFindSimilar_TiesBrokenByDateThenID(t *testing.T) {
	candidates := []cards.CardWithContext{
		card("old", "Hold the edge", "Jumps", 10),
		card("z-new", "Hold the edge", "Jumps", 90),
		card("a-new", "hold the edge.", "Spins", 90),
	}
	results, err := FindSimilar("Hold the edge", candidates, FindOptions{Threshold: 70})
	if err != nil {
		t.Fatal(err)
	}
	got := ids(results)
	want := []string{"a-new", "z-new", "old"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFindSimilar_ShortDraft(t *testing.T) {
	for _, draft := range []string{"", "  ", "ke", " ke "} {
		results, err := FindSimilar(draft, sampleCandidates(), FindOptions{Threshold: 0, MinLength: 3})
		if err != nil {
			t.Fatalf("draft %q: %v", draft, err)
		}
		if len(results) != 0 {
			t.Errorf("draft %q: expected no results, got %v", draft, ids(results))
		}
	}
}

func TestFindSimilar_PunctuationOnlyDraft(t *testing.T) {
	results, err := FindSimilar("...,,,", sampleCandidates(), FindOptions{Threshold: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", ids(results))
	}
}

func TestFindSimilar_EmptyCandidates(t *testing.T) {
	results, err := FindSimilar("keep left shoulder down", nil, FindOptions{Threshold: 70})
	if err != nil {
		t.Fatal(err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", results)
	}
}

func TestFindSimilar_ExcludesEditedCard(t *testing.T) {
	candidates := []cards.CardWithContext{
		card("self", "Keep left shoulder down", "Jumps", 1),
		card("other", "Keep left shoulder down and back", "Jumps", 2),
	}
	results, err := FindSimilar("Keep left shoulder down", candidates, FindOptions{Threshold: 70, Exclude: "self"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].CardID != "other" {
		t.Errorf("expected only 'other', got %v", ids(results))
	}
}

func TestFindSimilar_DuplicateIDsScoredOnce(t *testing.T) {
	candidates := []cards.CardWithContext{
		card("dup", "Keep left shoulder down", "Jumps", 1),
		card("dup", "Keep left shoulder down", "Jumps", 1),
	}
	results, err := FindSimilar("Keep left shoulder down", candidates, FindOptions{Threshold: 70})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %v", ids(results))
	}
}

func TestFindSimilar_Limit(t *testing.T) {
	results, err := FindSimilar("keep left shoulder down", sampleCandidates(), FindOptions{Threshold: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	all, _ := FindSimilar("keep left shoulder down", sampleCandidates(), FindOptions{Threshold: 1})
	if len(results) != 2 || results[0] != all[0] || results[1] != all[1] {
		t.Errorf("limit should keep the top 2, got %v of %v", ids(results), ids(all))
	}
}

func TestFindSimilar_Validation(t *testing.T) {
	good := sampleCandidates()
	bad := append(sampleCandidates(), card("", "no id", "Jumps", 1))
	noContent := append(sampleCandidates(), card("x", "", "Jumps", 1))

	tests := []struct {
		name       string
		candidates []cards.CardWithContext
		opts       FindOptions
	}{
		{"threshold too high", good, FindOptions{Threshold: 101}},
		{"threshold negative", good, FindOptions{Threshold: -1}},
		{"negative min length", good, FindOptions{Threshold: 70, MinLength: -1}},
		{"negative limit", good, FindOptions{Threshold: 70, Limit: -1}},
		{"candidate without id", bad, FindOptions{Threshold: 70}},
		{"candidate without content", noContent, FindOptions{Threshold: 70}},
	}
	for _, tt := range tests {
		_, err := FindSimilar("keep left shoulder down", tt.candidates, tt.opts)
		if !errors.Is(err, cards.ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

func TestFindSimilar_Idempotent(t *testing.T) {
	candidates := sampleCandidates()
	opts := FindOptions{Threshold: 20, MinLength: 3}
	first, err := FindSimilar("keep left shoulder down", candidates, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := FindSimilar("keep left shoulder down", candidates, opts)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("outputs differ:\n%s\n%s", a, b)
	}
	if candidates[0].ID != "a" || candidates[4].ID != "e" {
		t.Error("candidates mutated")
	}
}

func TestGroupByDeck(t *testing.T) {
	results := []SimilarityResult{
		{CardID: "1", DeckName: "Spins", Similarity: 95},
		{CardID: "2", DeckName: "Jumps", Similarity: 90},
		{CardID: "3", DeckName: "Spins", Similarity: 80},
		{CardID: "4", DeckName: "Footwork", Similarity: 75},
		{CardID: "5", DeckName: "Jumps", Similarity: 71},
	}
	groups := GroupByDeck(results)

	wantDecks := []string{"Spins", "Jumps", "Footwork"}
	if len(groups) != len(wantDecks) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantDecks))
	}
	total := 0
	seen := make(map[string]int)
	for i, g := range groups {
		if g.DeckName != wantDecks[i] {
			t.Errorf("group %d = %s, want %s", i, g.DeckName, wantDecks[i])
		}
		for _, r := range g.Results {
			if r.DeckName != g.DeckName {
				t.Errorf("result %s in wrong group %s", r.CardID, g.DeckName)
			}
			seen[r.CardID]++
			total++
		}
	}
	if total != len(results) {
		t.Errorf("grouping kept %d of %d results", total, len(results))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("result %s appears %d times", id, n)
		}
	}
	if groups[0].Results[0].CardID != "1" || groups[0].Results[1].CardID != "3" {
		t.Errorf("order inside group not kept: %+v", groups[0].Results)
	}

	if got := GroupByDeck(nil); len(got) != 0 {
		t.Errorf("expected no groups for nil input, got %+v", got)
	}
}

func TestSortByDate(t *testing.T) {
	results := []SimilarityResult{
		{CardID: "b", CardDate: 10, Similarity: 99},
		{CardID: "c", CardDate: 30, Similarity: 80},
		{CardID: "a", CardDate: 30, Similarity: 75},
	}
	got := ids(SortByDate(results))
	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if results[0].CardID != "b" {
		t.Error("SortByDate mutated its input")
	}
}
