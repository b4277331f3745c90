package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/config"
	"skatelog/trainlog/internal/logger"
	"skatelog/trainlog/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	cfg    = config.DefaultConfig()
	logCmd = logger.New("trainlog")
)

var rootCmd = &cobra.Command{
	Use:           "trainlog",
	Short:         "Skating training log: cards, duplicate checks and priority reminders",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		logCmd.SetLevel(log.GetLevel())

		loaded, source, err := config.LoadConfigWithPriority(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if source == "" {
			logCmd.Debug("using builtin config")
		} else {
			logCmd.Debug("config loaded", "path", source)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to .trainlog.db database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// DiscoverDB finds the database path using priority: env > flag > walk-up > XDG fallback.
// Env and flag paths are taken as given so a new collection can be started
// anywhere; the XDG fallback directory is created on demand.
func DiscoverDB() (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("TRAINLOG_DB"); envPath != "" {
		return envPath, nil
	}

	// 2. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
			return "", fmt.Errorf("directory for --db path does not exist: %s", dbPath)
		}
		return dbPath, nil
	}

	// 3. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, ".trainlog.db")
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 4. XDG fallback
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("no .trainlog.db found and no home directory (set TRAINLOG_DB or use --db): %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	appDir := filepath.Join(dataDir, "trainlog")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	return filepath.Join(appDir, "trainlog.db"), nil
}

// OpenDatabase discovers and opens the database
func OpenDatabase() (*store.DB, error) {
	path, err := DiscoverDB()
	if err != nil {
		return nil, err
	}
	logCmd.Debug("opening database", "path", path)
	return store.OpenDB(path)
}

// ResolveDeck finds a deck by full ID, ID prefix, exact name, or fuzzy name.
func ResolveDeck(d *store.DB, reference string) (*store.Deck, error) {
	// 1. Exact ID match
	deck, err := d.GetDeck(reference)
	if err == nil {
		return deck, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// 2. ID prefix match (≥6 hex/dash chars)
	if len(reference) >= 6 && isHexDash(reference) {
		matches, err := d.SearchDecksByIDPrefix(reference, 10)
		if err != nil {
			return nil, fmt.Errorf("deck prefix lookup: %w", err)
		}
		switch len(matches) {
		case 1:
			return &matches[0], nil
		case 0:
			// fall through to names
		default:
			lines := make([]string, len(matches))
			for i, m := range matches {
				lines[i] = fmt.Sprintf("  %s %s", truncID(m.ID), m.Name)
			}
			return nil, ambiguous(reference, len(matches), lines, "Use a full deck ID instead.")
		}
	}

	decks, err := d.ListDecks()
	if err != nil {
		return nil, err
	}

	// 3. Exact name, case-insensitive
	for i := range decks {
		if strings.EqualFold(decks[i].Name, strings.TrimSpace(reference)) {
			return &decks[i], nil
		}
	}

	// 4. Fuzzy name match
	matches := fuzzy.FindFrom(reference, deckNames(decks))
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("deck not found: %s", reference)
	case 1:
		return &decks[matches[0].Index], nil
	}
	limit := min(len(matches), 10)
	lines := make([]string, limit)
	for i := 0; i < limit; i++ {
		m := decks[matches[i].Index]
		lines[i] = fmt.Sprintf("  %s %s", truncID(m.ID), m.Name)
	}
	return nil, ambiguous(reference, len(matches), lines, "Use the full deck name or ID instead.")
}

// deckNames adapts a deck list to fuzzy.Source.
type deckNames []store.Deck

func (n deckNames) String(i int) string { return n[i].Name }
func (n deckNames) Len() int            { return len(n) }

// ResolveCard finds a card by full ID, ID prefix, or content search.
func ResolveCard(d *store.DB, reference string) (*store.Card, error) {
	// 1. Exact ID match
	card, err := d.GetCard(reference)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// 2. ID prefix match (≥6 hex/dash chars)
	if len(reference) >= 6 && isHexDash(reference) {
		matches, err := d.SearchCardsByIDPrefix(reference, 10)
		if err != nil {
			return nil, fmt.Errorf("card prefix lookup: %w", err)
		}
		switch len(matches) {
		case 1:
			return &matches[0], nil
		case 0:
			// fall through to FTS
		default:
			lines := make([]string, len(matches))
			for i, m := range matches {
				lines[i] = fmt.Sprintf("  %s %s", truncID(m.ID), truncText(m.Content, 60))
			}
			return nil, ambiguous(reference, len(matches), lines, "Use a full card ID instead.")
		}
	}

	// 3. FTS search, which already treats a missing index as no results
	results, err := d.SearchCards(reference, 10)
	if err != nil {
		return nil, fmt.Errorf("card search: %w", err)
	}
	switch len(results) {
	case 1:
		return &results[0].Card, nil
	case 0:
		return nil, fmt.Errorf("card not found: %s", reference)
	}
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("  %s %s", truncID(r.ID), truncText(r.Content, 60))
	}
	return nil, ambiguous(reference, len(results), lines, "Use a card ID instead.")
}

// ResolveGoal finds a goal by full ID or ID prefix.
func ResolveGoal(d *store.DB, reference string) (*store.Goal, error) {
	matches, err := d.SearchGoalsByIDPrefix(reference, 10)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].ID == reference {
			return &matches[i], nil
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("goal not found: %s", reference)
	case 1:
		return &matches[0], nil
	}
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = fmt.Sprintf("  %s %s", truncID(m.ID), m.Title)
	}
	return nil, ambiguous(reference, len(matches), lines, "Use a full goal ID instead.")
}

// resolveSection finds a section of a deck by title, listing the options on a miss.
func resolveSection(d *store.DB, deck *store.Deck, title string) (*store.Section, error) {
	s, err := d.FindSection(deck.ID, title)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	sections, lerr := d.SectionsForDeck(deck.ID)
	if lerr != nil {
		return nil, lerr
	}
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	return nil, fmt.Errorf("no section %q in deck %s (have: %s)", title, deck.Name, strings.Join(titles, ", "))
}

func ambiguous(reference string, n int, lines []string, hint string) error {
	return fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\n%s",
		reference, n, strings.Join(lines, "\n"), hint)
}

func isHexDash(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '-') {
			return false
		}
	}
	return true
}

// disciplineOrDefault falls back to the first configured discipline.
func disciplineOrDefault(d string) string {
	if d == "" && len(cfg.Decks.Disciplines) > 0 {
		return cfg.Decks.Disciplines[0]
	}
	return d
}

// checkDiscipline rejects disciplines outside the configured set.
func checkDiscipline(d string) error {
	if cfg.HasDiscipline(d) {
		return nil
	}
	return fmt.Errorf("unknown discipline %q (want one of: %s)", d, strings.Join(cfg.Decks.Disciplines, ", "))
}
