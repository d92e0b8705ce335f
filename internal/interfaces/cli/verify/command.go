package verify

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batterymon/batterymon/internal/infrastructure/catalog"
	"github.com/batterymon/batterymon/internal/interfaces/cli/env"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that compiled catalogs load",
		Long:  `Load the compiled catalog of every discovered translation source and report its message count.`,
		RunE:  run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	e, err := env.Init()
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalogs, err := e.Pipeline(false).Catalogs()
	if err != nil {
		return err
	}

	reports, err := catalog.NewVerifier(e.Log).Verify(catalogs)
	if err != nil {
		return err
	}

	for _, r := range reports {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %5d  %s\n", r.Language, r.Messages, r.Path)
	}
	return nil
}
