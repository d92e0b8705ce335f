package install

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/batterymon/batterymon/internal/application/build"
	"github.com/batterymon/batterymon/internal/interfaces/cli/env"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

var (
	prefix string
	root   string
	record string
	force  bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Build and install catalogs and data files",
		Long:  `Run the build, then copy the compiled catalogs into <root><prefix>/share/locale and the data files into their declared directories.`,
		RunE:  run,
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Installation prefix (overrides paths.prefix)")
	cmd.Flags().StringVar(&root, "root", "", "Stage the installation under this directory (overrides paths.root)")
	cmd.Flags().StringVar(&record, "record", "", "Write the list of installed files to this YAML file")
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

	cfg := e.Config
	if prefix != "" {
		cfg.Paths.Prefix = prefix
	}
	if root != "" {
		cfg.Paths.Root = root
	}

	pipeline := e.Pipeline(force)
	result, err := pipeline.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	manifest := pipeline.Manifest(result)
	installer := build.NewInstaller(build.InstallOptions{
		Prefix: cfg.Paths.Prefix,
		Root:   cfg.Paths.Root,
		Record: record,
	}, cfg.Product.Name, cfg.Product.Version, e.Log)

	if _, err := pipeline.Install(cmd.Context(), manifest, installer); err != nil {
		return fmt.Errorf("install failed: %w", err)
	}

	return nil
}
