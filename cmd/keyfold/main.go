package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keyfold/keyfold/cmd/keyfold/commands"
	"github.com/keyfold/keyfold/internal/config"
	"github.com/keyfold/keyfold/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile     string
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "keyfold",
		Short: "Keyfold - store and retrieve secrets through the desktop secret service",
		Long: `keyfold talks to the freedesktop secret service on the session bus to
store, look up and manage secrets in the user's keyring collections.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor)

			cfg.Path = configFile
			cfg.Logger = logger
			cfg.NonInteractive = nonInteractive
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "keyfold.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Dismiss keyring prompts instead of waiting for them")

	rootCmd.AddCommand(
		commands.NewStoreCommand(cfg),
		commands.NewGetCommand(cfg),
		commands.NewSearchCommand(cfg),
		commands.NewRemoveCommand(cfg),
		commands.NewLockCommand(cfg),
		commands.NewUnlockCommand(cfg),
		commands.NewAliasCommand(cfg),
	)

	return rootCmd.Execute()
}
