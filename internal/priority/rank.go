// Package priority picks the cards a dashboard should surface: the user's
// priority-flagged cards, ranked by how helpful they have proven.
package priority

import (
	"fmt"
	"sort"
	"strings"

	"skatelog/trainlog/internal/cards"
)

// Policy holds the eligibility rules that sit outside the ranking itself.
type Policy struct {
	// ExcludedSections are section titles (case-insensitive) whose cards are
	// informational and never surfaced as reminders.
	ExcludedSections []string
}

// DefaultPolicy excludes the Theory section.
func DefaultPolicy() Policy {
	return Policy{ExcludedSections: []string{cards.SectionTheory}}
}

// Excludes reports whether a section title is on the exclusion list.
func (p Policy) Excludes(sectionTitle string) bool {
	title := strings.TrimSpace(sectionTitle)
	for _, s := range p.ExcludedSections {
		if strings.EqualFold(strings.TrimSpace(s), title) {
			return true
		}
	}
	return false
}

// Filter selects which priority cards to rank.
type Filter struct {
	Discipline cards.Discipline
	Limit      int
}

// Less is the ranking order: higher helpfulness first, then most recently
// reinforced (last vote, or creation when never voted), then smaller ID.
func Less(a, b cards.CardWithContext) bool {
	if a.HelpfulnessScore != b.HelpfulnessScore {
		return a.HelpfulnessScore > b.HelpfulnessScore
	}
	ra, rb := a.ReinforcedAt(), b.ReinforcedAt()
	if ra != rb {
		return ra > rb
	}
	return a.ID < b.ID
}

// Rank keeps the priority cards of f.Discipline outside excluded sections,
// orders them with Less and then truncates to f.Limit.
func Rank(cs []cards.CardWithContext, f Filter, p Policy) ([]cards.CardWithContext, error) {
	if f.Limit <= 0 {
		return nil, cards.Invalid("limit", "%d must be positive", f.Limit)
	}
	if f.Discipline == "" {
		return nil, cards.Invalid("discipline", "empty")
	}

	eligible := make([]cards.CardWithContext, 0, len(cs))
	seen := make(map[string]bool, len(cs))
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		if seen[c.ID] || !c.Priority || c.Discipline != f.Discipline || p.Excludes(c.SectionTitle) {
			continue
		}
		seen[c.ID] = true
		eligible = append(eligible, c)
	}

	return sortAndTruncate(eligible, f.Limit), nil
}

func sortAndTruncate(cs []cards.CardWithContext, limit int) []cards.CardWithContext {
	sort.Slice(cs, func(i, j int) bool { return Less(cs[i], cs[j]) })
	if len(cs) > limit {
		cs = cs[:limit]
	}
	return cs
}
