package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/similarity"
)

var (
	searchThreshold float64
	searchSort      string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <deck> [query...]",
	Short: "Fuzzy-filter the cards of a deck",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch searchSort {
		case "recent", "helpful", "priority":
		default:
			return fmt.Errorf("unknown sort %q (want recent, helpful or priority)", searchSort)
		}

		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		deck, err := ResolveDeck(d, args[0])
		if err != nil {
			return err
		}
		deckCards, err := cards.Collection{DB: d}.DeckCards(deck.ID)
		if err != nil {
			return err
		}

		threshold := cfg.Similarity.SearchThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = searchThreshold
		}
		matched, err := similarity.Filter(strings.Join(args[1:], " "), deckCards, threshold)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		matched = cards.SortBy(searchSort, matched)

		if searchJSON {
			if matched == nil {
				matched = []cards.CardWithContext{}
			}
			return writeJSON(matched)
		}
		fmt.Printf("%s: %d of %d cards\n\n", deck.Name, len(matched), len(deckCards))
		printCardList(matched)
		return nil
	},
}

func init() {
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "Minimum similarity 0-100 (default: similarity.search_threshold from config)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "recent", "Sort: recent, helpful, priority")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "JSON output")
	rootCmd.AddCommand(searchCmd)
}
