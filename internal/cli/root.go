package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/steamgames/internal/client"
)

var (
	cfg    *Config
	api    *client.Client
	logger *slog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "steamgames",
		Short: "Terminal viewer for the Steam games catalog",
		Long: `steamgames browses a Steam games catalog served by the catalog API.

Run "steamgames browse" for an interactive session with login, search,
game details, publisher and category lists and relationship graphs, or use
the one-shot commands with --user and --password.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = cfg.Logger(cmd.ErrOrStderr())
			api = client.New(client.Config{
				BaseURL: cfg.ServerURL,
				Logger:  logger,
			})
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Catalog API URL (env: STEAMGAMES_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Username, "user", "u", cfg.Username, "Username (env: STEAMGAMES_USER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Password, "password", "p", cfg.Password, "Password (env: STEAMGAMES_PASSWORD)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newPublisherCmd())
	rootCmd.AddCommand(newCategoryCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newSimilarCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
