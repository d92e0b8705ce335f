// Package cli assembles the batterymon-setup command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/batterymon/batterymon/internal/interfaces/cli/build"
	"github.com/batterymon/batterymon/internal/interfaces/cli/clean"
	"github.com/batterymon/batterymon/internal/interfaces/cli/env"
	"github.com/batterymon/batterymon/internal/interfaces/cli/install"
	"github.com/batterymon/batterymon/internal/interfaces/cli/verify"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "batterymon-setup",
		Short:         "Build and install batterymon's translations and data files",
		Long:          `batterymon-setup compiles batterymon's .po translations into .mo catalogs, installs them together with the icon sets, and cleans generated artifacts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	env.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		build.NewCommand(),
		install.NewCommand(),
		clean.NewCommand(),
		verify.NewCommand(),
	)

	return rootCmd
}
