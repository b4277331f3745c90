package similarity

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"skatelog/trainlog/internal/cards"
)

// SimilarityResult is an existing card that resembles a draft.
type SimilarityResult struct {
	CardID       string  `json:"card_id"`
	Content      string  `json:"content"`
	DeckID       string  `json:"deck_id"`
	SectionID    string  `json:"section_id"`
	SectionTitle string  `json:"section_title"`
	DeckName     string  `json:"deck_name"`
	Similarity   float64 `json:"similarity"`
	CardDate     int64   `json:"card_date"` // card CreatedAt, Unix millis
}

// FindOptions controls FindSimilar. Threshold has no default; callers own it.
type FindOptions struct {
	Threshold float64 // keep candidates scoring >= Threshold (0-100)
	MinLength int     // drafts shorter than this (trimmed, in runes) find nothing
	Exclude   string  // card ID to skip, typically the card being edited
	Limit     int     // 0 means no limit
}

// FindSimilar scores draft against every candidate and returns those at or
// above the threshold, most similar first. Ties go to the newer card, then
// to the smaller ID. Candidates sharing an ID are scored once.
func FindSimilar(draft string, candidates []cards.CardWithContext, opts FindOptions) ([]SimilarityResult, error) {
	if err := cards.CheckThreshold(opts.Threshold); err != nil {
		return nil, err
	}
	if opts.MinLength < 0 {
		return nil, cards.Invalid("min_length", "%d is negative", opts.MinLength)
	}
	if opts.Limit < 0 {
		return nil, cards.Invalid("limit", "%d is negative", opts.Limit)
	}
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
	}

	results := []SimilarityResult{}
	trimmed := strings.TrimSpace(draft)
	if utf8.RuneCountInString(trimmed) < opts.MinLength {
		return results, nil
	}
	nd := Normalize(trimmed)
	if nd == "" {
		return results, nil
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.ID == opts.Exclude || seen[c.ID] {
			continue
		}
		seen[c.ID] = true

		sim := scoreNormalized(nd, Normalize(c.Content))
		if sim < opts.Threshold {
			continue
		}
		results = append(results, SimilarityResult{
			CardID:       c.ID,
			Content:      c.Content,
			DeckID:       c.DeckID,
			SectionID:    c.SectionID,
			SectionTitle: c.SectionTitle,
			DeckName:     c.DeckName,
			Similarity:   sim,
			CardDate:     c.CreatedAt,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.CardDate != b.CardDate {
			return a.CardDate > b.CardDate
		}
		return a.CardID < b.CardID
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// DeckGroup is the slice of results belonging to one deck name.
type DeckGroup struct {
	DeckName string             `json:"deck_name"`
	Results  []SimilarityResult `json:"results"`
}

// GroupByDeck buckets results by deck name. Decks appear in the order
// their first result appears; results keep their relative order.
func GroupByDeck(results []SimilarityResult) []DeckGroup {
	index := make(map[string]int)
	var groups []DeckGroup
	for _, r := range results {
		i, ok := index[r.DeckName]
		if !ok {
			i = len(groups)
			index[r.DeckName] = i
			groups = append(groups, DeckGroup{DeckName: r.DeckName})
		}
		groups[i].Results = append(groups[i].Results, r)
	}
	return groups
}

// SortByDate returns a copy of results ordered newest card first.
func SortByDate(results []SimilarityResult) []SimilarityResult {
	out := append([]SimilarityResult(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CardDate != out[j].CardDate {
			return out[i].CardDate > out[j].CardDate
		}
		return out[i].CardID < out[j].CardID
	})
	return out
}
