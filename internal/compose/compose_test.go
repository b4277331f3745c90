package compose

import (
	"testing"
	"time"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/similarity"
)

const testDelay = 100 * time.Millisecond

func TestDebouncer_OnlyLastRuns(t *testing.T) {
	d := NewDebouncer(testDelay)
	ran := make(chan int, 3)

	for i := 1; i <= 3; i++ {
		d.Schedule(func(uint64) { ran <- i })
	}

	select {
	case got := <-ran:
		if got != 3 {
			t.Errorf("ran %d, want only the last (3)", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function never ran")
	}

	select {
	case extra := <-ran:
		t.Errorf("superseded function %d also ran", extra)
	case <-time.After(3 * testDelay):
	}
}

func TestDebouncer_Generations(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	first := d.Schedule(func(uint64) {})
	if !d.IsCurrent(first) {
		t.Error("fresh generation should be current")
	}
	second := d.Schedule(func(uint64) {})
	if second <= first {
		t.Errorf("generations must increase: %d then %d", first, second)
	}
	if d.IsCurrent(first) {
		t.Error("older generation still current")
	}
	if !d.IsCurrent(second) {
		t.Error("latest generation not current")
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(testDelay / 2)
	ran := make(chan struct{}, 1)
	gen := d.Schedule(func(uint64) { ran <- struct{}{} })
	d.Stop()

	if d.IsCurrent(gen) {
		t.Error("Stop should invalidate the pending generation")
	}
	select {
	case <-ran:
		t.Error("stopped function ran")
	case <-time.After(3 * testDelay):
	}
}

func TestChecker_DeliversLatestDraft(t *testing.T) {
	candidates := []cards.CardWithContext{
		{
			Card:        cards.Card{ID: "a", Content: "Keep left shoulder down and back", CreatedAt: 1},
			DeckContext: cards.DeckContext{DeckID: "d", DeckName: "Jumps", SectionID: "s", SectionTitle: "Reminders"},
		},
		{
			Card:        cards.Card{ID: "b", Content: "Bend your knees slightly", CreatedAt: 2},
			DeckContext: cards.DeckContext{DeckID: "d", DeckName: "Jumps", SectionID: "s", SectionTitle: "Reminders"},
		},
	}
	results := make(chan Result, 4)
	c := NewChecker(candidates, similarity.FindOptions{Threshold: 70, MinLength: 3}, testDelay, func(r Result) {
		results <- r
	})
	defer c.Stop()

	c.Update("Be")
	c.Update("Bend your")
	last := c.Update("Keep left shoulder down")

	select {
	case r := <-results:
		if r.Err != nil {
			t.Fatal(r.Err)
		}
		if r.Gen != last {
			t.Errorf("gen = %d, want %d", r.Gen, last)
		}
		if r.Draft != "Keep left shoulder down" {
			t.Errorf("delivered stale draft %q", r.Draft)
		}
		if len(r.Matches) != 1 || r.Matches[0].CardID != "a" {
			t.Errorf("unexpected matches: %+v", r.Matches)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}

	select {
	case r := <-results:
		t.Errorf("extra delivery for %q", r.Draft)
	case <-time.After(3 * testDelay):
	}
}

func TestChecker_ReportsValidationError(t *testing.T) {
	results := make(chan Result, 1)
	c := NewChecker(nil, similarity.FindOptions{Threshold: 150}, testDelay/4, func(r Result) {
		results <- r
	})
	defer c.Stop()

	c.Update("Keep left shoulder down")
	select {
	case r := <-results:
		if r.Err == nil {
			t.Error("expected validation error for threshold 150")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
}
