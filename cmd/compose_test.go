package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/similarity"
)

func nowForTest() time.Time { return time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local) }

func composeCandidates() []cards.CardWithContext {
	mk := func(id, content, deck string) cards.CardWithContext {
		return cards.CardWithContext{
			Card:        cards.Card{ID: id, Content: content, CreatedAt: 1},
			DeckContext: cards.DeckContext{DeckID: deck, DeckName: deck, SectionTitle: "Reminders", Discipline: "singles"},
		}
	}
	return []cards.CardWithContext{
		mk("c1", "Keep left shoulder down and back", "Jumps"),
		mk("c2", "Point the free toe on spirals", "Spins"),
	}
}

func TestComposeDrafts_LastRevisionWins(t *testing.T) {
	input := strings.NewReader("ke\nkeep left\nKeep left shoulder down\n")
	opts := similarity.FindOptions{Threshold: 70, MinLength: 3}

	res, ok, err := composeDrafts(input, composeCandidates(), opts, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a settled result")
	}
	if res.Draft != "Keep left shoulder down" {
		t.Errorf("draft = %q", res.Draft)
	}
	if res.Gen != 3 {
		t.Errorf("gen = %d, want 3", res.Gen)
	}
	if len(res.Matches) != 1 || res.Matches[0].CardID != "c1" {
		t.Errorf("matches = %+v", res.Matches)
	}
}

func TestComposeDrafts_EmptyInput(t *testing.T) {
	_, ok, err := composeDrafts(strings.NewReader(""), composeCandidates(), similarity.FindOptions{Threshold: 70}, time.Millisecond)
	if err != nil || ok {
		t.Errorf("ok = %v, err = %v", ok, err)
	}
}

func TestComposeDrafts_ReportsInvalidThreshold(t *testing.T) {
	res, ok, err := composeDrafts(strings.NewReader("keep left\n"), composeCandidates(), similarity.FindOptions{Threshold: 150}, time.Millisecond)
	if err != nil || !ok {
		t.Fatalf("ok = %v, err = %v", ok, err)
	}
	if res.Err == nil {
		t.Error("expected validation error in result")
	}
}

func TestPrintSimilar(t *testing.T) {
	results := []similarity.SimilarityResult{
		{CardID: "aaaaaaaa-1", Content: "Keep left shoulder down", DeckName: "Jumps", SectionTitle: "Reminders", Similarity: 92.5, CardDate: 1},
		{CardID: "bbbbbbbb-2", Content: "Shoulder check", DeckName: "Spins", SectionTitle: "Reminders", Similarity: 75, CardDate: 2},
		{CardID: "cccccccc-3", Content: "Left shoulder low", DeckName: "Jumps", SectionTitle: "Exercises", Similarity: 71, CardDate: 3},
	}

	var grouped bytes.Buffer
	printSimilar(&grouped, results, false)
	out := grouped.String()
	if !strings.HasPrefix(out, "3 similar cards:") {
		t.Errorf("header: %q", out)
	}
	// Jumps is listed once, before Spins, with both of its cards
	if strings.Count(out, "\n  Jumps\n") != 1 || strings.Index(out, "Jumps") > strings.Index(out, "Spins") {
		t.Errorf("grouping: %q", out)
	}
	if strings.Index(out, "aaaaaaaa") > strings.Index(out, "cccccccc") {
		t.Errorf("order inside group: %q", out)
	}

	var dated bytes.Buffer
	printSimilar(&dated, results, true)
	out = dated.String()
	if strings.Index(out, "cccccccc") > strings.Index(out, "aaaaaaaa") {
		t.Errorf("by date should start with the newest card: %q", out)
	}

	var none bytes.Buffer
	printSimilar(&none, nil, false)
	if none.String() != "No similar cards.\n" {
		t.Errorf("empty: %q", none.String())
	}
}
