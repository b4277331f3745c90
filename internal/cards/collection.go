package cards

import "skatelog/trainlog/internal/store"

// Collection reads cards with their deck context out of the store.
type Collection struct {
	DB *store.DB
}

// CardsWithContext returns all cards of a discipline ("" for every deck).
func (c Collection) CardsWithContext(discipline string) ([]CardWithContext, error) {
	rows, err := c.DB.CardsWithContext(discipline)
	if err != nil {
		return nil, err
	}
	return FromStore(rows), nil
}

// DeckCards returns the cards of one deck.
func (c Collection) DeckCards(deckID string) ([]CardWithContext, error) {
	rows, err := c.DB.DeckCardsWithContext(deckID)
	if err != nil {
		return nil, err
	}
	return FromStore(rows), nil
}

// FromStore converts joined store rows into engine values. Slices and
// pointers are copied so results never alias store memory.
func FromStore(rows []store.CardContext) []CardWithContext {
	out := make([]CardWithContext, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromStoreRow(r))
	}
	return out
}

// FromStoreRow converts a single joined row.
func FromStoreRow(r store.CardContext) CardWithContext {
	var upvoted *int64
	if r.LastUpvotedAt != nil {
		v := *r.LastUpvotedAt
		upvoted = &v
	}
	var tags []string
	if len(r.Tags) > 0 {
		tags = append([]string(nil), r.Tags...)
	}
	return CardWithContext{
		Card: Card{
			ID:               r.ID,
			Content:          r.Content,
			Tags:             tags,
			Priority:         r.Priority,
			HelpfulnessScore: r.HelpfulnessScore,
			CreatedAt:        r.CreatedAt,
			LastUpvotedAt:    upvoted,
			MarkedForMerge:   r.MarkedForMerge,
		},
		DeckContext: DeckContext{
			DeckID:       r.DeckID,
			DeckName:     r.DeckName,
			SectionID:    r.SectionID,
			SectionTitle: r.SectionTitle,
			Discipline:   r.Discipline,
		},
	}
}
