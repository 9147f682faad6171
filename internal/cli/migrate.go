package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookhive/internal/entrypoint"
)

// MigrateCommand applies pending schema migrations and exits.
type MigrateCommand struct{}

func NewMigrateCommand() *MigrateCommand {
	return &MigrateCommand{}
}

func (cmd *MigrateCommand) Cobra() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}
}

func (cmd *MigrateCommand) Run(c *cobra.Command, _ []string) error {
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

	fmt.Fprintln(c.OutOrStdout(), "Database is up to date")
	return nil
}
