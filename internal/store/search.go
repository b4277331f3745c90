package store

import (
	"strings"
	"unicode"
)

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "is": true,
	"it": true, "and": true, "or": true, "with": true, "from": true,
	"by": true, "this": true, "that": true, "as": true, "be": true,
	"your": true, "you": true, "keep": true,
}

// BuildFTSQuery preprocesses a natural language query for FTS5.
// Splits on whitespace, removes stopwords and words < 3 chars, trims punctuation,
// quotes each term and joins with " OR ".
func BuildFTSQuery(query string) string {
	words := strings.Fields(query)
	var filtered []string
	for _, w := range words {
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(trimmed)) < 3 {
			continue
		}
		if stopwords[strings.ToLower(trimmed)] {
			continue
		}
		// Quoting keeps inner punctuation and FTS operators literal
		filtered = append(filtered, `"`+strings.ReplaceAll(trimmed, `"`, `""`)+`"`)
	}
	return strings.Join(filtered, " OR ")
}

// SearchCards performs FTS5 search over card content and tags.
// Returns empty slice if the preprocessed query is empty or if FTS table doesn't exist.
func (d *DB) SearchCards(query string, limit int) ([]CardContext, error) {
	ftsQuery := BuildFTSQuery(query)
	if ftsQuery == "" {
		return []CardContext{}, nil
	}

	rows, err := d.conn.Query(contextQuery+`
		JOIN cards_fts ON c.rowid = cards_fts.rowid
		WHERE cards_fts MATCH ?
		ORDER BY cards_fts.rank, c.id
		LIMIT ?
	`, ftsQuery, limit)
	if err != nil {
		// Gracefully handle missing FTS table
		if strings.Contains(err.Error(), "no such table") {
			return []CardContext{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	out := []CardContext{}
	for rows.Next() {
		cc, err := scanCardContext(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}
