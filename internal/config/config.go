/*
Package config manages the TOML config for trainlog.

Thresholds and the priority exclusion list live here, not in the engine:
the engine takes them as arguments so every call site reads the same value.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Similarity SimilarityConfig `toml:"similarity"`
	Priority   PriorityConfig   `toml:"priority"`
	Decks      DecksConfig      `toml:"decks"`
}

// SimilarityConfig has duplicate detection and search options.
type SimilarityConfig struct {
	DuplicateThreshold float64 `toml:"duplicate_threshold"`
	SearchThreshold    float64 `toml:"search_threshold"`
	MinDraftLength     int     `toml:"min_draft_length"`
	DebounceMillis     int     `toml:"debounce_ms"`
	MaxResults         int     `toml:"max_results"`
}

// PriorityConfig holds dashboard ranking options.
type PriorityConfig struct {
	ExcludedSections []string `toml:"excluded_sections"`
	DefaultLimit     int      `toml:"default_limit"`
	PerDiscipline    int      `toml:"per_discipline"`
}

// DecksConfig holds the discipline set and the sections seeded in new decks.
type DecksConfig struct {
	Disciplines     []string `toml:"disciplines"`
	DefaultSections []string `toml:"default_sections"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Similarity: SimilarityConfig{
			DuplicateThreshold: 70,
			SearchThreshold:    60,
			MinDraftLength:     3,
			DebounceMillis:     500,
			MaxResults:         10,
		},
		Priority: PriorityConfig{
			ExcludedSections: []string{"Theory"},
			DefaultLimit:     5,
			PerDiscipline:    3,
		},
		Decks: DecksConfig{
			Disciplines:     []string{"singles", "pairs", "dance"},
			DefaultSections: []string{"Reminders", "Troubleshooting", "Theory", "Exercises"},
		},
	}
}

// Validate rejects values the engine would refuse later.
func (c *Config) Validate() error {
	var errs []error
	for name, v := range map[string]float64{
		"similarity.duplicate_threshold": c.Similarity.DuplicateThreshold,
		"similarity.search_threshold":    c.Similarity.SearchThreshold,
	} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s: %v outside [0,100]", name, v))
		}
	}
	if c.Similarity.MinDraftLength < 0 {
		errs = append(errs, fmt.Errorf("similarity.min_draft_length: %d is negative", c.Similarity.MinDraftLength))
	}
	if c.Similarity.DebounceMillis < 0 {
		errs = append(errs, fmt.Errorf("similarity.debounce_ms: %d is negative", c.Similarity.DebounceMillis))
	}
	if c.Similarity.MaxResults < 0 {
		errs = append(errs, fmt.Errorf("similarity.max_results: %d is negative", c.Similarity.MaxResults))
	}
	if c.Priority.DefaultLimit <= 0 {
		errs = append(errs, fmt.Errorf("priority.default_limit: %d must be positive", c.Priority.DefaultLimit))
	}
	if c.Priority.PerDiscipline <= 0 {
		errs = append(errs, fmt.Errorf("priority.per_discipline: %d must be positive", c.Priority.PerDiscipline))
	}
	if len(c.Decks.Disciplines) == 0 {
		errs = append(errs, errors.New("decks.disciplines: empty"))
	}
	for _, d := range c.Decks.Disciplines {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, errors.New("decks.disciplines: blank entry"))
			break
		}
	}
	return errors.Join(errs...)
}

// HasDiscipline reports whether d is one of the configured disciplines.
func (c *Config) HasDiscipline(d string) bool {
	for _, known := range c.Decks.Disciplines {
		if known == d {
			return true
		}
	}
	return false
}

// GetDefaultConfigPath returns [UserConfigDir]/trainlog/config.toml
func GetDefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "trainlog", "config.toml"), nil
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults; unknown keys are an error so typos do not pass silently.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	md, err := toml.DecodeFile(configPath, config)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing %s: unknown keys %s", configPath, strings.Join(keys, ", "))
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", configPath, err)
	}
	return config, nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag (must load if given)
// 2. Default path: [UserConfigDir]/trainlog/config.toml, if present
// 3. Builtin defaults
//
// Returns the config and the path it came from ("" for defaults).
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		config, err := LoadConfig(customConfigPath)
		if err != nil {
			return nil, "", err
		}
		log.Debug("loaded config", "path", customConfigPath)
		return config, customConfigPath, nil
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	if _, err := os.Stat(defaultPath); err != nil {
		log.Debug("no config file, using defaults", "path", defaultPath)
		return DefaultConfig(), "", nil
	}

	config, err := LoadConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debug("loaded config", "path", defaultPath)
	return config, defaultPath, nil
}

// SaveConfig writes config to path as TOML, creating parent directories.
func SaveConfig(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
