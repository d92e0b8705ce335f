package build

import (
	"context"
	"fmt"

	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
	"github.com/batterymon/batterymon/internal/shared/version"
)

// CompilerProbe is the part of the compiler adapter the preflight needs.
type CompilerProbe interface {
	Lookup() (string, error)
	CheckVersion(ctx context.Context, minimum string) error
}

// PreflightOptions sets the minimum versions checked before a build.
type PreflightOptions struct {
	RuntimeVersion    string
	MinRuntimeVersion string
	MinCompiler       string
}

// Preflight fails fast, before any build step runs, when the runtime is too
// old or the catalog compiler is missing or too old.
func Preflight(ctx context.Context, probe CompilerProbe, opts PreflightOptions) error {
	if opts.MinRuntimeVersion != "" {
		current := version.FromGoRuntime(opts.RuntimeVersion)
		if !version.AtLeast(current, opts.MinRuntimeVersion) {
			return apperrors.NewPreconditionError(
				fmt.Sprintf("runtime %s is older than the required %s", opts.RuntimeVersion, opts.MinRuntimeVersion),
			)
		}
	}

	if _, err := probe.Lookup(); err != nil {
		return err
	}
	return probe.CheckVersion(ctx, opts.MinCompiler)
}
