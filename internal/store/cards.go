package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const cardColumns = `c.id, c.section_id, c.content, c.tags, c.priority, c.helpfulness_score,
		       c.created_at, c.last_upvoted_at, c.marked_for_merge`

// scanCard scans a row into a Card. The row must start with cardColumns in order;
// extra destinations are scanned after them.
func scanCard(scanner interface{ Scan(dest ...any) error }, extra ...any) (Card, error) {
	var c Card
	var tags string
	dest := append([]any{
		&c.ID, &c.SectionID, &c.Content, &tags, &c.Priority, &c.HelpfulnessScore,
		&c.CreatedAt, &c.LastUpvotedAt, &c.MarkedForMerge,
	}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return c, err
	}
	tagList, err := decodeTags(tags)
	if err != nil {
		return c, fmt.Errorf("card %s: %w", c.ID, err)
	}
	c.Tags = tagList
	return c, nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("parsing tags JSON: %w (raw: %s)", err, raw)
	}
	return tags, nil
}

// encodeTags trims, drops empties and de-duplicates (case-insensitive) before encoding.
func encodeTags(tags []string) (string, error) {
	seen := make(map[string]bool, len(tags))
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		clean = append(clean, t)
	}
	out, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(out), nil
}

// CreateCardOpts holds optional fields for card creation
type CreateCardOpts struct {
	Tags     []string
	Priority bool
	// CreatedAt overrides the creation time (Unix millis). Zero means now.
	CreatedAt int64
}

// CreateCard inserts a card into a section and returns it.
func (d *DB) CreateCard(sectionID, content string, opts CreateCardOpts) (*Card, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("create card: empty content")
	}

	tags, err := encodeTags(opts.Tags)
	if err != nil {
		return nil, err
	}

	created := opts.CreatedAt
	if created == 0 {
		created = time.Now().UnixMilli()
	}

	id := uuid.New().String()
	if _, err := d.conn.Exec(
		`INSERT INTO cards (id, section_id, content, tags, priority, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, sectionID, content, tags, opts.Priority, created,
	); err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}
	return d.GetCard(id)
}

// GetCard returns a single card by ID
func (d *DB) GetCard(id string) (*Card, error) {
	c, err := scanCard(d.conn.QueryRow(`
		SELECT `+cardColumns+`
		FROM cards c WHERE c.id = ?
	`, id))
	if err != nil {
		return nil, notFound(err, "get card", id)
	}
	return &c, nil
}

// SearchCardsByIDPrefix finds cards whose ID starts with the given prefix.
func (d *DB) SearchCardsByIDPrefix(prefix string, limit int) ([]Card, error) {
	rows, err := d.conn.Query(`
		SELECT `+cardColumns+`
		FROM cards c WHERE c.id LIKE ? ORDER BY c.id LIMIT ?
	`, prefix+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCard replaces a card's content and tags.
func (d *DB) UpdateCard(id, content string, tags []string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("update card %s: empty content", id)
	}
	encoded, err := encodeTags(tags)
	if err != nil {
		return err
	}
	res, err := d.conn.Exec("UPDATE cards SET content = ?, tags = ? WHERE id = ?", content, encoded, id)
	if err != nil {
		return fmt.Errorf("update card %s: %w", id, err)
	}
	return requireAffected(res, "update card", id)
}

// SetPriority sets or clears the dashboard priority flag.
func (d *DB) SetPriority(id string, priority bool) error {
	res, err := d.conn.Exec("UPDATE cards SET priority = ? WHERE id = ?", priority, id)
	if err != nil {
		return fmt.Errorf("set priority %s: %w", id, err)
	}
	return requireAffected(res, "set priority", id)
}

// SetMarkedForMerge sets or clears the merge marker.
func (d *DB) SetMarkedForMerge(id string, marked bool) error {
	res, err := d.conn.Exec("UPDATE cards SET marked_for_merge = ? WHERE id = ?", marked, id)
	if err != nil {
		return fmt.Errorf("mark for merge %s: %w", id, err)
	}
	return requireAffected(res, "mark for merge", id)
}

// AdjustHelpfulness adds delta to the helpfulness score, never going below
// zero. last_upvoted_at is stamped with at (Unix millis) only when the score
// actually changes, so a downvote at the floor leaves the card's rank alone.
func (d *DB) AdjustHelpfulness(id string, delta int, at int64) (*Card, error) {
	// SET expressions all see the row as it was before the update
	res, err := d.conn.Exec(`
		UPDATE cards SET
			helpfulness_score = MAX(0, helpfulness_score + ?1),
			last_upvoted_at = CASE
				WHEN MAX(0, helpfulness_score + ?1) <> helpfulness_score THEN ?2
				ELSE last_upvoted_at
			END
		WHERE id = ?3`,
		delta, at, id,
	)
	if err != nil {
		return nil, fmt.Errorf("adjust helpfulness %s: %w", id, err)
	}
	if err := requireAffected(res, "adjust helpfulness", id); err != nil {
		return nil, err
	}
	return d.GetCard(id)
}

// DeleteCard removes a card.
func (d *DB) DeleteCard(id string) error {
	res, err := d.conn.Exec("DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return requireAffected(res, "delete card", id)
}
