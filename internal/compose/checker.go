// Package compose runs the duplicate check while a card is being written,
// applying only the result for the latest draft.
package compose

import (
	"time"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/similarity"
)

// Result is the outcome of one settled duplicate check.
type Result struct {
	Gen     uint64 // generation of the Update that produced this result
	Draft   string
	Matches []similarity.SimilarityResult
	Err     error
}

// Checker debounces FindSimilar over a fixed candidate set.
type Checker struct {
	candidates []cards.CardWithContext
	opts       similarity.FindOptions
	debouncer  *Debouncer
	deliver    func(Result)
}

// NewChecker builds a Checker. deliver is called from a timer goroutine,
// at most once per settled draft, and never for a superseded draft.
func NewChecker(candidates []cards.CardWithContext, opts similarity.FindOptions, delay time.Duration, deliver func(Result)) *Checker {
	return &Checker{
		candidates: candidates,
		opts:       opts,
		debouncer:  NewDebouncer(delay),
		deliver:    deliver,
	}
}

// Update records a new draft. Pending checks for older drafts are dropped.
func (c *Checker) Update(draft string) uint64 {
	return c.debouncer.Schedule(func(gen uint64) {
		matches, err := similarity.FindSimilar(draft, c.candidates, c.opts)
		// A newer draft may have arrived while scoring
		if !c.debouncer.IsCurrent(gen) {
			return
		}
		c.deliver(Result{Gen: gen, Draft: draft, Matches: matches, Err: err})
	})
}

// Stop drops any pending check.
func (c *Checker) Stop() {
	c.debouncer.Stop()
}
