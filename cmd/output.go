package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"skatelog/trainlog/internal/similarity"
)

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncText flattens s onto one line and cuts it at max bytes.
func truncText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}

// ago renders a Unix millis timestamp relative to now.
func ago(ms int64) string {
	if ms == 0 {
		return "never"
	}
	return humanize.Time(time.UnixMilli(ms))
}

// printSimilar writes the duplicate warning grouped by deck, or by date when
// byDate is set.
func printSimilar(w io.Writer, results []similarity.SimilarityResult, byDate bool) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No similar cards.")
		return
	}

	s := ""
	if len(results) != 1 {
		s = "s"
	}
	fmt.Fprintf(w, "%d similar card%s:\n", len(results), s)

	if byDate {
		for _, r := range similarity.SortByDate(results) {
			fmt.Fprintf(w, "  %5.1f%%  %s  %s / %s  %s  (%s)\n",
				r.Similarity, truncID(r.CardID), r.DeckName, r.SectionTitle,
				truncText(r.Content, 50), ago(r.CardDate))
		}
		return
	}

	for _, g := range similarity.GroupByDeck(results) {
		fmt.Fprintf(w, "\n  %s\n", g.DeckName)
		for _, r := range g.Results {
			fmt.Fprintf(w, "    %5.1f%%  %s  [%s]  %s  (%s)\n",
				r.Similarity, truncID(r.CardID), r.SectionTitle,
				truncText(r.Content, 50), ago(r.CardDate))
		}
	}
}
