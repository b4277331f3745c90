package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/similarity"
	"skatelog/trainlog/internal/store"
)

var (
	cardTags       []string
	cardPriority   bool
	cardForceQuiet bool
	cardJSON       bool
	cardOff        bool
	cardSection    string
	cardSort       string
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage cards",
}

var cardAddCmd = &cobra.Command{
	Use:   "add <deck> <section> <content...>",
	Short: "Add a card, warning about similar existing cards",
	Args:  cobra.MinimumNArgs(3),
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
		section, err := resolveSection(d, deck, args[1])
		if err != nil {
			return err
		}
		content := strings.Join(args[2:], " ")

		if !cardForceQuiet {
			if err := warnDuplicates(d, content, ""); err != nil {
				return err
			}
		}

		card, err := d.CreateCard(section.ID, content, store.CreateCardOpts{
			Tags:     cardTags,
			Priority: cardPriority,
		})
		if err != nil {
			return err
		}
		if cardJSON {
			return writeJSON(card)
		}
		fmt.Printf("Added card %s to %s / %s\n", truncID(card.ID), deck.Name, section.Title)
		return nil
	},
}

var cardShowCmd = &cobra.Command{
	Use:   "show <card>",
	Short: "Show a card with its deck and section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := resolveCardContext(d, args[0])
		if err != nil {
			return err
		}
		if cardJSON {
			return writeJSON(c)
		}

		fmt.Printf("%s\n\n", wordwrap.String(c.Content, 72))
		fmt.Printf("  id          %s\n", c.ID)
		fmt.Printf("  deck        %s (%s)\n", c.DeckName, c.Discipline)
		fmt.Printf("  section     %s\n", c.SectionTitle)
		if len(c.Tags) > 0 {
			fmt.Printf("  tags        %s\n", strings.Join(c.Tags, ", "))
		}
		fmt.Printf("  priority    %v\n", c.Priority)
		fmt.Printf("  helpful     %d\n", c.HelpfulnessScore)
		fmt.Printf("  created     %s\n", ago(c.CreatedAt))
		if c.LastUpvotedAt != nil {
			fmt.Printf("  reinforced  %s\n", ago(*c.LastUpvotedAt))
		}
		if c.MarkedForMerge {
			fmt.Println("  marked for merge")
		}
		return nil
	},
}

var cardEditCmd = &cobra.Command{
	Use:   "edit <card> <content...>",
	Short: "Replace a card's content (and tags with --tag)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		card, err := ResolveCard(d, args[0])
		if err != nil {
			return err
		}
		content := strings.Join(args[1:], " ")
		tags := card.Tags
		if cmd.Flags().Changed("tag") {
			tags = cardTags
		}

		if !cardForceQuiet {
			if err := warnDuplicates(d, content, card.ID); err != nil {
				return err
			}
		}
		if err := d.UpdateCard(card.ID, content, tags); err != nil {
			return err
		}
		fmt.Printf("Updated card %s\n", truncID(card.ID))
		return nil
	},
}

func helpfulnessCmd(use, short string, delta int) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <card>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := OpenDatabase()
			if err != nil {
				return err
			}
			defer d.Close()

			card, err := ResolveCard(d, args[0])
			if err != nil {
				return err
			}
			updated, err := d.AdjustHelpfulness(card.ID, delta, time.Now().UnixMilli())
			if err != nil {
				return err
			}
			fmt.Printf("%s helpfulness %d\n", truncID(updated.ID), updated.HelpfulnessScore)
			return nil
		},
	}
}

var cardPriorityCmd = &cobra.Command{
	Use:   "priority <card>",
	Short: "Flag a card as priority (--off to clear)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		card, err := ResolveCard(d, args[0])
		if err != nil {
			return err
		}
		if err := d.SetPriority(card.ID, !cardOff); err != nil {
			return err
		}
		state := "on"
		if cardOff {
			state = "off"
		}
		fmt.Printf("%s priority %s\n", truncID(card.ID), state)
		return nil
	},
}

var cardRmCmd = &cobra.Command{
	Use:   "rm <card>",
	Short: "Delete a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		card, err := ResolveCard(d, args[0])
		if err != nil {
			return err
		}
		if err := d.DeleteCard(card.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted card %s\n", truncID(card.ID))
		return nil
	},
}

var cardListCmd = &cobra.Command{
	Use:   "list <deck>",
	Short: "List the cards of a deck",
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
		all, err := cards.Collection{DB: d}.DeckCards(deck.ID)
		if err != nil {
			return err
		}
		var list []cards.CardWithContext
		for _, c := range all {
			if cardSection == "" || strings.EqualFold(c.SectionTitle, cardSection) {
				list = append(list, c)
			}
		}
		list = cards.SortBy(cardSort, list)

		if cardJSON {
			if list == nil {
				list = []cards.CardWithContext{}
			}
			return writeJSON(list)
		}
		printCardList(list)
		return nil
	},
}

func printCardList(list []cards.CardWithContext) {
	if len(list) == 0 {
		fmt.Println("No cards.")
		return
	}
	for _, c := range list {
		flag := " "
		if c.Priority {
			flag = "*"
		}
		fmt.Printf("%s %s  %-15s %3d  %s  (%s)\n",
			flag, truncID(c.ID), truncText(c.SectionTitle, 15), c.HelpfulnessScore,
			truncText(c.Content, 50), ago(c.ReinforcedAt()))
	}
}

func resolveCardContext(d *store.DB, reference string) (cards.CardWithContext, error) {
	card, err := ResolveCard(d, reference)
	if err != nil {
		return cards.CardWithContext{}, err
	}
	row, err := d.CardWithContext(card.ID)
	if err != nil {
		return cards.CardWithContext{}, err
	}
	return cards.FromStoreRow(*row), nil
}

// findOptions builds duplicate-check options from config.
func findOptions(threshold float64, exclude string) similarity.FindOptions {
	return similarity.FindOptions{
		Threshold: threshold,
		MinLength: cfg.Similarity.MinDraftLength,
		Exclude:   exclude,
		Limit:     cfg.Similarity.MaxResults,
	}
}

// warnDuplicates prints similar existing cards to stderr. It never blocks the write.
func warnDuplicates(d *store.DB, content, exclude string) error {
	candidates, err := cards.Collection{DB: d}.CardsWithContext("")
	if err != nil {
		return fmt.Errorf("loading cards: %w", err)
	}
	logCmd.Debug("duplicate check", "candidates", len(candidates))

	results, err := similarity.FindSimilar(content, candidates, findOptions(cfg.Similarity.DuplicateThreshold, exclude))
	if err != nil {
		return err
	}
	if len(results) > 0 {
		printSimilar(os.Stderr, results, false)
		fmt.Fprintln(os.Stderr)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{cardAddCmd, cardEditCmd} {
		c.Flags().StringSliceVar(&cardTags, "tag", nil, "Tag (repeatable or comma-separated)")
		c.Flags().BoolVar(&cardForceQuiet, "force-quiet", false, "Skip the similar-card warning")
	}
	cardAddCmd.Flags().BoolVar(&cardPriority, "priority", false, "Flag as priority")
	cardPriorityCmd.Flags().BoolVar(&cardOff, "off", false, "Clear the priority flag")
	cardListCmd.Flags().StringVar(&cardSection, "section", "", "Only this section")
	cardListCmd.Flags().StringVar(&cardSort, "sort", "recent", "Sort: recent, helpful, priority")
	for _, c := range []*cobra.Command{cardAddCmd, cardShowCmd, cardListCmd} {
		c.Flags().BoolVar(&cardJSON, "json", false, "JSON output")
	}

	cardCmd.AddCommand(
		cardAddCmd, cardShowCmd, cardEditCmd,
		helpfulnessCmd("up", "Mark a card helpful", 1),
		helpfulnessCmd("down", "Mark a card less helpful", -1),
		cardPriorityCmd, cardRmCmd, cardListCmd,
	)
	rootCmd.AddCommand(cardCmd)
}
