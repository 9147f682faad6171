// Package cli defines the bookhive command line: the API server plus
// database maintenance commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/config"
	"github.com/mrlokans/bookhive/internal/logger"
)

// NewRootCommand builds the command tree. Running it without a subcommand serves the API.
func NewRootCommand(version string) *cobra.Command {
	serve := NewServeCommand(version)

	root := &cobra.Command{
		Use:           "bookhive",
		Short:         "BookHive library API",
		Long:          "BookHive serves a library catalog with accounts, reviews and reading lists.\nSettings are read from the environment (and a .env file when present).",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.Run,
	}

	root.AddCommand(
		serve.Cobra(),
		NewMigrateCommand().Cobra(),
		NewSeedCommand().Cobra(),
		NewCreateUserCommand().Cobra(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCommand(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.NewConfig()
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
