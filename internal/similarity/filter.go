package similarity

import (
	"fmt"
	"strings"

	"skatelog/trainlog/internal/cards"
)

// Matches reports whether a card passes a search query: the query appears in
// the content, names one of the tags, or scores at least threshold against
// the content. A blank query matches everything.
func Matches(query string, card cards.Card, threshold float64) bool {
	nq := Normalize(query)
	if nq == "" {
		return true
	}
	return matchNormalized(nq, card, threshold)
}

func matchNormalized(nq string, card cards.Card, threshold float64) bool {
	nc := Normalize(card.Content)
	if strings.Contains(nc, nq) {
		return true
	}
	for _, tag := range card.Tags {
		if nt := Normalize(tag); nt != "" && strings.Contains(nt, nq) {
			return true
		}
	}
	return scoreNormalized(nq, nc) >= threshold
}

// Filter keeps the cards matching query, in input order.
func Filter(query string, cs []cards.CardWithContext, threshold float64) ([]cards.CardWithContext, error) {
	if err := cards.CheckThreshold(threshold); err != nil {
		return nil, err
	}
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
	}

	out := make([]cards.CardWithContext, 0, len(cs))
	nq := Normalize(query)
	for _, c := range cs {
		if nq == "" || matchNormalized(nq, c.Card, threshold) {
			out = append(out, c)
		}
	}
	return out, nil
}
