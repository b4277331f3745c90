package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/priority"
)

var (
	prioDiscipline string
	prioLimit      int
	prioOthers     bool
	prioJSON       bool
)

var prioritiesCmd = &cobra.Command{
	Use:   "priorities",
	Short: "Show the priority reminders for a discipline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		discipline := disciplineOrDefault(prioDiscipline)
		if err := checkDiscipline(discipline); err != nil {
			return err
		}
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		r := &priority.Retriever{
			Source: cards.Collection{DB: d},
			Policy: priority.Policy{ExcludedSections: cfg.Priority.ExcludedSections},
		}
		limit := cfg.Priority.DefaultLimit
		if cmd.Flags().Changed("limit") {
			limit = prioLimit
		}

		focus, err := r.Prioritized(priority.Filter{Discipline: discipline, Limit: limit})
		if err != nil {
			return fmt.Errorf("priorities: %w", err)
		}
		var others []cards.CardWithContext
		if prioOthers {
			others, err = r.OtherDisciplines(discipline, cfg.Priority.PerDiscipline, cfg.Decks.Disciplines)
			if err != nil {
				return fmt.Errorf("other disciplines: %w", err)
			}
		}

		if prioJSON {
			output := struct {
				Discipline string                  `json:"discipline"`
				Focus      []cards.CardWithContext `json:"focus"`
				Others     []cards.CardWithContext `json:"others,omitempty"`
			}{discipline, focus, others}
			if output.Focus == nil {
				output.Focus = []cards.CardWithContext{}
			}
			return writeJSON(output)
		}

		fmt.Printf("Priorities for %s\n\n", discipline)
		printPriorityList(focus)
		if prioOthers {
			fmt.Println("\nOther disciplines")
			fmt.Println()
			printPriorityList(others)
		}
		return nil
	},
}

func printPriorityList(list []cards.CardWithContext) {
	if len(list) == 0 {
		fmt.Println("  Nothing flagged. Mark cards with: trainlog card priority <card>")
		return
	}
	for i, c := range list {
		fmt.Printf("  %d. %s\n     %s / %s  helpful %d  reinforced %s  %s\n",
			i+1, truncText(c.Content, 70), c.DeckName, c.SectionTitle,
			c.HelpfulnessScore, ago(c.ReinforcedAt()), truncID(c.ID))
	}
}

func init() {
	prioritiesCmd.Flags().StringVar(&prioDiscipline, "discipline", "", "Discipline to focus on (default: first configured discipline)")
	prioritiesCmd.Flags().IntVar(&prioLimit, "limit", 0, "Max cards (default: priority.default_limit from config)")
	prioritiesCmd.Flags().BoolVar(&prioOthers, "others", false, "Also show top cards from the other disciplines")
	prioritiesCmd.Flags().BoolVar(&prioJSON, "json", false, "JSON output")
	rootCmd.AddCommand(prioritiesCmd)
}
