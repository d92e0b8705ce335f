package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

type InstallOptions struct {
	// Prefix is the installation prefix, e.g. /usr/local.
	Prefix string
	// Root stages the whole install under another directory, as for packaging.
	Root string
	// Record, when set, receives the list of installed files.
	Record string
}

// Record is the YAML document written by --record.
type Record struct {
	Product string   `yaml:"product"`
	Version string   `yaml:"version,omitempty"`
	Files   []string `yaml:"files"`
}

type Installer struct {
	opts    InstallOptions
	product string
	version string
	logger  logger.Interface
}

func NewInstaller(opts InstallOptions, product, version string, log logger.Interface) *Installer {
	return &Installer{
		opts:    opts,
		product: product,
		version: version,
		logger:  log.With("component", "build.installer"),
	}
}

// Destination resolves an entry directory: relative directories go under
// <root>/<prefix>, absolute ones under <root>.
func (i *Installer) Destination(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Join(i.opts.Root, dir)
	}
	return filepath.Join(i.opts.Root, i.opts.Prefix, filepath.FromSlash(dir))
}

// Install copies every manifest file into its destination directory and
// returns the installed paths in manifest order.
func (i *Installer) Install(ctx context.Context, manifest *Manifest) ([]string, error) {
	var installed []string

	for _, entry := range manifest.Entries() {
		dest := i.Destination(entry.Dir)
		if err := os.MkdirAll(dest, 0755); err != nil {
			return installed, apperrors.NewInstallError("failed to create install directory", dest).WithCause(err)
		}

		for _, src := range entry.Files {
			if err := ctx.Err(); err != nil {
				return installed, err
			}

			target := filepath.Join(dest, filepath.Base(src))
			if err := copyFile(src, target); err != nil {
				return installed, apperrors.NewInstallError(
					fmt.Sprintf("failed to install %s", src), err.Error(),
				).WithCause(err)
			}
			i.logger.Debugw("installed file", "source", src, "target", target)
			installed = append(installed, target)
		}
	}

	if i.opts.Record != "" {
		if err := i.writeRecord(installed); err != nil {
			return installed, err
		}
	}

	i.logger.Infow("install complete", "files", len(installed), "prefix", i.opts.Prefix, "root", i.opts.Root)
	return installed, nil
}

func (i *Installer) writeRecord(files []string) error {
	data, err := yaml.Marshal(&Record{Product: i.product, Version: i.version, Files: files})
	if err != nil {
		return fmt.Errorf("failed to encode install record: %w", err)
	}
	if dir := filepath.Dir(i.opts.Record); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewInstallError("failed to create record directory", dir).WithCause(err)
		}
	}
	if err := os.WriteFile(i.opts.Record, data, 0644); err != nil {
		return apperrors.NewInstallError("failed to write install record", i.opts.Record).WithCause(err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Install runs the install-data step for manifest.
func (p *Pipeline) Install(ctx context.Context, manifest *Manifest, installer *Installer) ([]string, error) {
	installed, err := installer.Install(ctx, manifest)
	if err != nil {
		return installed, p.fail(err)
	}
	p.stage = StageInstalled
	return installed, nil
}
