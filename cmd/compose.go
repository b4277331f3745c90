package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/cards"
	"skatelog/trainlog/internal/compose"
	"skatelog/trainlog/internal/similarity"
)

var (
	composeDeck    string
	composeExclude string
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Check a draft for duplicates as it is typed, one revision per line on stdin",
	Long: `Reads successive revisions of a draft from stdin, one per line. The
duplicate check runs once typing settles (debounce from config) and only the
result for the latest revision is shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		coll := cards.Collection{DB: d}
		var candidates []cards.CardWithContext
		if composeDeck != "" {
			deck, err := ResolveDeck(d, composeDeck)
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

		delay := time.Duration(cfg.Similarity.DebounceMillis) * time.Millisecond
		opts := findOptions(cfg.Similarity.DuplicateThreshold, composeExclude)
		final, ok, err := composeDrafts(os.Stdin, candidates, opts, delay)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if final.Err != nil {
			return fmt.Errorf("compose: %w", final.Err)
		}
		printSimilar(os.Stdout, final.Matches, false)
		return nil
	},
}

// composeDrafts feeds each line of r to a debounced checker and returns the
// result for the last line. ok is false when r had no lines.
func composeDrafts(r io.Reader, candidates []cards.CardWithContext, opts similarity.FindOptions, delay time.Duration) (compose.Result, bool, error) {
	var (
		mu     sync.Mutex
		latest compose.Result
	)
	settled := make(chan struct{}, 1)
	checker := compose.NewChecker(candidates, opts, delay, func(res compose.Result) {
		mu.Lock()
		if res.Gen >= latest.Gen {
			latest = res
		}
		mu.Unlock()
		logCmd.Debug("draft settled", "draft", truncText(res.Draft, 40), "matches", len(res.Matches))
		select {
		case settled <- struct{}{}:
		default:
		}
	})
	defer checker.Stop()

	var last uint64
	lines := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		last = checker.Update(scanner.Text())
		lines++
	}
	if err := scanner.Err(); err != nil {
		return compose.Result{}, false, fmt.Errorf("reading draft: %w", err)
	}
	if lines == 0 {
		return compose.Result{}, false, nil
	}

	// A result for an earlier revision can land after the last Update; wait
	// for the one from the final generation.
	for range settled {
		mu.Lock()
		res := latest
		mu.Unlock()
		if res.Gen == last {
			return res, true, nil
		}
	}
	return compose.Result{}, false, nil
}

func init() {
	composeCmd.Flags().StringVar(&composeDeck, "deck", "", "Only compare against this deck")
	composeCmd.Flags().StringVar(&composeExclude, "exclude", "", "Card ID to skip (the card being edited)")
	rootCmd.AddCommand(composeCmd)
}
