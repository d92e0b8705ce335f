package build

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batterymon/batterymon/internal/interfaces/cli/env"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

var force bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile translation catalogs",
		Long:  `Compile every stale .po translation source into a .mo catalog under the build root and resolve the declared data files.`,
		RunE:  run,
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Recompile catalogs even when they are up to date")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	e, err := env.Init()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := e.Preflight(cmd.Context()); err != nil {
		return err
	}

	pipeline := e.Pipeline(force)
	result, err := pipeline.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	manifest := pipeline.Manifest(result)
	e.Log.Infow("build completed",
		"catalogs", len(result.Catalogs),
		"compiled", len(result.Compiled),
		"install_files", manifest.FileCount())

	return nil
}
