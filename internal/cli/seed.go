package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookhive/internal/entrypoint"
	"github.com/mrlokans/bookhive/internal/seed"
)

// SeedCommand loads the sample library into the database.
type SeedCommand struct{}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) Cobra() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample users, books, reviews and reading lists",
		Long:  "Load sample data. Existing rows are kept, so running it twice is safe.",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}
}

func (cmd *SeedCommand) Run(c *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := entrypoint.OpenDatabase(c.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := seed.Run(c.Context(), db.DB, cfg.Auth.BcryptCost, log)
	if err != nil {
		return err
	}

	out := c.OutOrStdout()
	fmt.Fprintln(out, "Seed complete")
	fmt.Fprintf(out, "  Users:     %d new\n", res.Users)
	fmt.Fprintf(out, "  Books:     %d new\n", res.Books)
	fmt.Fprintf(out, "  Reviews:   %d new\n", res.Reviews)
	fmt.Fprintf(out, "  Favorites: %d new\n", res.Favorites)
	return nil
}
