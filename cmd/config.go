package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"skatelog/trainlog/internal/config"
	"skatelog/trainlog/internal/logger"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to the config path",
	Args:  cobra.NoArgs,
	// The target file may not exist yet, so skip loading it.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.GetDefaultConfigPath(); err != nil {
				return err
			}
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
