package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// scanDeck scans a row into a Deck. The row must have all 4 columns in standard order.
func scanDeck(scanner interface{ Scan(dest ...any) error }) (Deck, error) {
	var d Deck
	err := scanner.Scan(&d.ID, &d.Name, &d.Discipline, &d.CreatedAt)
	return d, err
}

// CreateDeck inserts a deck and seeds it with the given sections, in order.
func (d *DB) CreateDeck(name, discipline string, sections []string) (*Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create deck: empty name")
	}

	deck := Deck{
		ID:         uuid.New().String(),
		Name:       name,
		Discipline: discipline,
		CreatedAt:  time.Now().UnixMilli(),
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO decks (id, name, discipline, created_at) VALUES (?, ?, ?, ?)",
		deck.ID, deck.Name, deck.Discipline, deck.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert deck: %w", err)
	}

	for i, title := range sections {
		if _, err := tx.Exec(
			"INSERT INTO sections (id, deck_id, title, position, created_at) VALUES (?, ?, ?, ?, ?)",
			uuid.New().String(), deck.ID, title, i, deck.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("insert section %q: %w", title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit deck: %w", err)
	}
	return &deck, nil
}

// ListDecks returns all decks ordered by name
func (d *DB) ListDecks() ([]Deck, error) {
	rows, err := d.conn.Query("SELECT id, name, discipline, created_at FROM decks ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, deck)
	}
	return decks, rows.Err()
}

// GetDeck returns a single deck by ID
func (d *DB) GetDeck(id string) (*Deck, error) {
	deck, err := scanDeck(d.conn.QueryRow(
		"SELECT id, name, discipline, created_at FROM decks WHERE id = ?", id,
	))
	if err != nil {
		return nil, notFound(err, "get deck", id)
	}
	return &deck, nil
}

// SearchDecksByIDPrefix finds decks whose ID starts with the given prefix.
func (d *DB) SearchDecksByIDPrefix(prefix string, limit int) ([]Deck, error) {
	rows, err := d.conn.Query(
		"SELECT id, name, discipline, created_at FROM decks WHERE id LIKE ? ORDER BY id LIMIT ?",
		prefix+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, rows.Err()
}

// DeleteDeck removes a deck. Sections and cards are cascade-deleted by SQLite.
func (d *DB) DeleteDeck(id string) error {
	res, err := d.conn.Exec("DELETE FROM decks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete deck %s: %w", id, err)
	}
	return requireAffected(res, "delete deck", id)
}

// scanSection scans a row into a Section. The row must have all 5 columns in standard order.
func scanSection(scanner interface{ Scan(dest ...any) error }) (Section, error) {
	var s Section
	err := scanner.Scan(&s.ID, &s.DeckID, &s.Title, &s.Position, &s.CreatedAt)
	return s, err
}

// CreateSection appends a section to a deck.
func (d *DB) CreateSection(deckID, title string) (*Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("create section: empty title")
	}
	if _, err := d.GetDeck(deckID); err != nil {
		return nil, err
	}

	var next int
	if err := d.conn.QueryRow(
		"SELECT COALESCE(MAX(position) + 1, 0) FROM sections WHERE deck_id = ?", deckID,
	).Scan(&next); err != nil {
		return nil, fmt.Errorf("next section position: %w", err)
	}

	s := Section{
		ID:        uuid.New().String(),
		DeckID:    deckID,
		Title:     title,
		Position:  next,
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := d.conn.Exec(
		"INSERT INTO sections (id, deck_id, title, position, created_at) VALUES (?, ?, ?, ?, ?)",
		s.ID, s.DeckID, s.Title, s.Position, s.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert section: %w", err)
	}
	return &s, nil
}

// SectionsForDeck returns a deck's sections in display order
func (d *DB) SectionsForDeck(deckID string) ([]Section, error) {
	rows, err := d.conn.Query(
		"SELECT id, deck_id, title, position, created_at FROM sections WHERE deck_id = ? ORDER BY position, id",
		deckID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// FindSection looks a section up by case-insensitive title within a deck.
func (d *DB) FindSection(deckID, title string) (*Section, error) {
	s, err := scanSection(d.conn.QueryRow(
		"SELECT id, deck_id, title, position, created_at FROM sections WHERE deck_id = ? AND title = ? COLLATE NOCASE",
		deckID, strings.TrimSpace(title),
	))
	if err != nil {
		return nil, notFound(err, "find section", title)
	}
	return &s, nil
}
