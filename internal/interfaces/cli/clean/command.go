package clean

import (
	"github.com/spf13/cobra"

	"github.com/batterymon/batterymon/internal/interfaces/cli/env"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

var all bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated build artifacts",
		Long:  `Remove temporary build output. With --all, also remove the compiled catalogs under <build root>/locale.`,
		RunE:  run,
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Also remove compiled catalogs")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	e, err := env.Init()
	if err != nil {
		return err
	}
	defer logger.Sync()

	e.Pipeline(false).Clean(all)
	e.Log.Infow("clean completed", "all", all)
	return nil
}
