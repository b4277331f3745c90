package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/similarity"
)

var (
	dupesDeck      string
	dupesThreshold float64
	dupesMark      bool
	dupesJSON      bool
)

var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Find clusters of near-duplicate cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		coll := cards.Collection{DB: d}
		var all []cards.CardWithContext
		if dupesDeck != "" {
			deck, err := ResolveDeck(d, dupesDeck)
			if err != nil {
				return err
			}
			all, err = coll.DeckCards(deck.ID)
			if err != nil {
				return err
			}
		} else {
			all, err = coll.CardsWithContext("")
			if err != nil {
				return err
			}
		}

		threshold := cfg.Similarity.DuplicateThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = dupesThreshold
		}
		clusters, err := similarity.Clusters(all, threshold)
		if err != nil {
			return fmt.Errorf("dupes: %w", err)
		}
		logCmd.Debug("clustered", "cards", len(all), "clusters", len(clusters))

		if dupesMark {
			marked := 0
			for _, cl := range clusters {
				for _, c := range cl.Cards {
					if c.MarkedForMerge {
						continue
					}
					if err := d.SetMarkedForMerge(c.ID, true); err != nil {
						return err
					}
					marked++
				}
			}
			logCmd.Info("marked for merge", "cards", marked)
		}

		if dupesJSON {
			if clusters == nil {
				clusters = []similarity.Cluster{}
			}
			return writeJSON(clusters)
		}

		if len(clusters) == 0 {
			fmt.Printf("No near-duplicates at %.0f%%.\n", threshold)
			return nil
		}
		for i, cl := range clusters {
			fmt.Printf("Cluster %d  (%d cards, up to %.1f%%)\n", i+1, len(cl.Cards), cl.MaxSimilarity)
			for _, c := range cl.Cards {
				fmt.Printf("  %s  %s / %s  %s\n",
					truncID(c.ID), c.DeckName, c.SectionTitle, truncText(c.Content, 50))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	dupesCmd.Flags().StringVar(&dupesDeck, "deck", "", "Only this deck")
	dupesCmd.Flags().Float64Var(&dupesThreshold, "threshold", 0, "Minimum similarity 0-100 (default: similarity.duplicate_threshold from config)")
	dupesCmd.Flags().BoolVar(&dupesMark, "mark", false, "Mark clustered cards for merge")
	dupesCmd.Flags().BoolVar(&dupesJSON, "json", false, "JSON output")
	rootCmd.AddCommand(dupesCmd)
}
