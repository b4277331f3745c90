package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/store"
)

var (
	deckDiscipline string
	deckSections   []string
	deckJSON       bool
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks",
}

var deckAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a deck seeded with the default sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		discipline := disciplineOrDefault(deckDiscipline)
		if err := checkDiscipline(discipline); err != nil {
			return err
		}
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		sections := cfg.Decks.DefaultSections
		if cmd.Flags().Changed("sections") {
			sections = deckSections
		}
		deck, err := d.CreateDeck(args[0], discipline, sections)
		if err != nil {
			return err
		}
		if deckJSON {
			return writeJSON(deck)
		}
		fmt.Printf("Created deck %s (%s) %s\n", deck.Name, deck.Discipline, truncID(deck.ID))
		return nil
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		decks, err := d.ListDecks()
		if err != nil {
			return err
		}
		if deckJSON {
			if decks == nil {
				decks = []store.Deck{}
			}
			return writeJSON(decks)
		}
		if len(decks) == 0 {
			fmt.Println("No decks. Create one with: trainlog deck add <name> --discipline singles")
			return nil
		}
		for _, deck := range decks {
			sections, err := d.SectionsForDeck(deck.ID)
			if err != nil {
				return err
			}
			titles := make([]string, len(sections))
			for i, s := range sections {
				titles[i] = s.Title
			}
			fmt.Printf("%s  %-24s %-8s created %s\n    %s\n",
				truncID(deck.ID), truncText(deck.Name, 24), deck.Discipline, ago(deck.CreatedAt),
				strings.Join(titles, " | "))
		}
		return nil
	},
}

var deckRmCmd = &cobra.Command{
	Use:   "rm <deck>",
	Short: "Delete a deck with its sections and cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		deck, err := ResolveDeck(d, args[0])
		if err != nil {
			return err
		}
		if err := d.DeleteDeck(deck.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted deck %s\n", deck.Name)
		return nil
	},
}

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Manage deck sections",
}

var sectionAddCmd = &cobra.Command{
	Use:   "add <deck> <title>",
	Short: "Append a section to a deck",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		deck, err := ResolveDeck(d, args[0])
		if err != nil {
			return err
		}
		s, err := d.CreateSection(deck.ID, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Added section %s to %s\n", s.Title, deck.Name)
		return nil
	},
}

func init() {
	deckAddCmd.Flags().StringVar(&deckDiscipline, "discipline", "", "Discipline of the deck (default: first configured discipline)")
	deckAddCmd.Flags().StringSliceVar(&deckSections, "sections", nil, "Section titles instead of the configured defaults")
	deckAddCmd.Flags().BoolVar(&deckJSON, "json", false, "JSON output")
	deckListCmd.Flags().BoolVar(&deckJSON, "json", false, "JSON output")

	deckCmd.AddCommand(deckAddCmd, deckListCmd, deckRmCmd)
	sectionCmd.AddCommand(sectionAddCmd)
	rootCmd.AddCommand(deckCmd, sectionCmd)
}
