package store

import "fmt"

const contextQuery = `
		SELECT ` + cardColumns + `,
		       d.id, d.name, s.title, d.discipline
		FROM cards c
		JOIN sections s ON s.id = c.section_id
		JOIN decks d ON d.id = s.deck_id`

// scanCardContext scans a row from contextQuery.
func scanCardContext(scanner interface{ Scan(dest ...any) error }) (CardContext, error) {
	var cc CardContext
	card, err := scanCard(scanner, &cc.DeckID, &cc.DeckName, &cc.SectionTitle, &cc.Discipline)
	if err != nil {
		return cc, err
	}
	cc.Card = card
	return cc, nil
}

func (d *DB) queryCardContexts(where string, args ...any) ([]CardContext, error) {
	rows, err := d.conn.Query(contextQuery+" "+where+" ORDER BY d.name, s.position, c.created_at, c.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CardContext
	for rows.Next() {
		cc, err := scanCardContext(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

// CardsWithContext returns every card in decks of the given discipline with
// its deck and section. An empty discipline returns cards from all decks.
func (d *DB) CardsWithContext(discipline string) ([]CardContext, error) {
	var (
		out []CardContext
		err error
	)
	if discipline == "" {
		out, err = d.queryCardContexts("")
	} else {
		out, err = d.queryCardContexts("WHERE d.discipline = ?", discipline)
	}
	if err != nil {
		return nil, fmt.Errorf("cards with context: %w", err)
	}
	return out, nil
}

// DeckCardsWithContext returns the cards of a single deck.
func (d *DB) DeckCardsWithContext(deckID string) ([]CardContext, error) {
	out, err := d.queryCardContexts("WHERE d.id = ?", deckID)
	if err != nil {
		return nil, fmt.Errorf("deck cards %s: %w", deckID, err)
	}
	return out, nil
}

// CardWithContext returns one card with its deck and section.
func (d *DB) CardWithContext(id string) (*CardContext, error) {
	cc, err := scanCardContext(d.conn.QueryRow(contextQuery+" WHERE c.id = ?", id))
	if err != nil {
		return nil, notFound(err, "card with context", id)
	}
	return &cc, nil
}
