package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/similarity"
)

var (
	similarThreshold float64
	similarDeck      string
	similarExclude   string
	similarJSON      bool
	similarByDate    bool
)

var similarCmd = &cobra.Command{
	Use:   "similar <text...>",
	Short: "Find existing cards similar to a draft",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		coll := cards.Collection{DB: d}
		var candidates []cards.CardWithContext
		if similarDeck != "" {
			deck, err := ResolveDeck(d, similarDeck)
			if err != nil {
				return err
			}
			candidates, err = coll.DeckCards(deck.ID)
			if err != nil {
				return err
			}
		} else {
			candidates, err = coll.CardsWithContext("")
			if err != nil {
				return err
			}
		}

		threshold := cfg.Similarity.DuplicateThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = similarThreshold
		}
		logCmd.Debug("finding similar", "candidates", len(candidates), "threshold", threshold)

		results, err := similarity.FindSimilar(strings.Join(args, " "), candidates, findOptions(threshold, similarExclude))
		if err != nil {
			return fmt.Errorf("similar: %w", err)
		}
		if similarByDate {
			results = similarity.SortByDate(results)
		}

		if similarJSON {
			output := struct {
				Threshold float64                       `json:"threshold"`
				Results   []similarity.SimilarityResult `json:"results"`
				Groups    []similarity.DeckGroup        `json:"groups"`
				Count     int                           `json:"count"`
			}{
				Threshold: threshold,
				Results:   nonNilResults(results),
				Groups:    similarity.GroupByDeck(results),
				Count:     len(results),
			}
			if output.Groups == nil {
				output.Groups = []similarity.DeckGroup{}
			}
			return writeJSON(output)
		}

		printSimilar(os.Stdout, results, similarByDate)
		return nil
	},
}

func nonNilResults(rs []similarity.SimilarityResult) []similarity.SimilarityResult {
	if rs == nil {
		return []similarity.SimilarityResult{}
	}
	return rs
}

func init() {
	similarCmd.Flags().Float64Var(&similarThreshold, "threshold", 0, "Minimum similarity 0-100 (default: similarity.duplicate_threshold from config)")
	similarCmd.Flags().StringVar(&similarDeck, "deck", "", "Only compare against this deck")
	similarCmd.Flags().StringVar(&similarExclude, "exclude", "", "Card ID to skip (the card being edited)")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "JSON output")
	similarCmd.Flags().BoolVar(&similarByDate, "by-date", false, "Order by card date instead of grouping by deck")
	rootCmd.AddCommand(similarCmd)
}
