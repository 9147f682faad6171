package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookhive/internal/entrypoint"
)

// ServeCommand runs the HTTP API.
type ServeCommand struct {
	Version string
}

func NewServeCommand(version string) *ServeCommand {
	return &ServeCommand{Version: version}
}

func (cmd *ServeCommand) Cobra() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}
}

func (cmd *ServeCommand) Run(c *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return entrypoint.Run(c.Context(), cfg, cmd.Version, log)
}
