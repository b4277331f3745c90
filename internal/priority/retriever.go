package priority

import (
	"fmt"

	"skatelog/trainlog/internal/cards"
)

// Source supplies cards already joined with their deck context.
type Source interface {
	CardsWithContext(discipline string) ([]cards.CardWithContext, error)
}

// Retriever fetches candidates from a Source and ranks them.
type Retriever struct {
	Source Source
	Policy Policy
}

// Prioritized returns the top f.Limit priority cards of f.Discipline.
func (r *Retriever) Prioritized(f Filter) ([]cards.CardWithContext, error) {
	cs, err := r.Source.CardsWithContext(f.Discipline)
	if err != nil {
		return nil, fmt.Errorf("loading %s cards: %w", f.Discipline, err)
	}
	return Rank(cs, f, r.Policy)
}

// OtherDisciplines ranks each discipline except focus on its own, takes the
// top perDiscipline of each and merges them under the same order. The merged
// list is not truncated further.
func (r *Retriever) OtherDisciplines(focus cards.Discipline, perDiscipline int, disciplines []cards.Discipline) ([]cards.CardWithContext, error) {
	if perDiscipline <= 0 {
		return nil, cards.Invalid("limit", "%d must be positive", perDiscipline)
	}

	var merged []cards.CardWithContext
	seen := make(map[string]bool)
	done := make(map[cards.Discipline]bool)
	for _, d := range disciplines {
		if d == focus || done[d] {
			continue
		}
		done[d] = true

		top, err := r.Prioritized(Filter{Discipline: d, Limit: perDiscipline})
		if err != nil {
			return nil, err
		}
		for _, c := range top {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			merged = append(merged, c)
		}
	}
	if merged == nil {
		return []cards.CardWithContext{}, nil
	}
	return sortAndTruncate(merged, len(merged)), nil
}
