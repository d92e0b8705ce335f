// Package build implements the localization build pipeline: discovering
// translation sources, compiling them into catalogs, handing the catalogs to
// the install step and cleaning generated artifacts.
package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/batterymon/batterymon/internal/domain/locale"
	"github.com/batterymon/batterymon/internal/infrastructure/compiler"
	"github.com/batterymon/batterymon/internal/infrastructure/datafiles"
	sharedConfig "github.com/batterymon/batterymon/internal/shared/config"
	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

// tempDir holds in-progress compiler output under the build root.
const tempDir = "temp"

type Options struct {
	// Product is the gettext domain, used as the catalog file name.
	Product        string
	ProjectRoot    string
	SourceDir      string
	BuildRoot      string
	SourcePatterns []string
	OnCollision    string
	StrictLocales  bool
	// Force recompiles catalogs even when they are up to date.
	Force     bool
	DataFiles []sharedConfig.DataFileConfig
}

// Result is what one build pass produced.
type Result struct {
	Catalogs []*locale.CompiledCatalog
	Compiled []string
	UpToDate []string
	// Pending carries the catalogs to the install step.
	Pending   *locale.PendingInstallEntries
	DataFiles []locale.InstallEntry
}

type Pipeline struct {
	opts      Options
	compiler  compiler.Compiler
	dataFiles *datafiles.Resolver
	logger    logger.Interface
	stage     Stage
	removeAll func(string) error
}

func NewPipeline(opts Options, c compiler.Compiler, log logger.Interface) *Pipeline {
	if len(opts.SourcePatterns) == 0 {
		opts.SourcePatterns = []string{"*.po"}
	}
	if opts.OnCollision == "" {
		opts.OnCollision = sharedConfig.CollisionError
	}
	if opts.ProjectRoot == "" {
		opts.ProjectRoot = "."
	}
	log = log.With("component", "build.pipeline")
	return &Pipeline{
		opts:      opts,
		compiler:  c,
		dataFiles: datafiles.NewResolver(opts.ProjectRoot, log),
		logger:    log,
		stage:     StageNotStarted,
		removeAll: os.RemoveAll,
	}
}

// Stage returns the current pipeline stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// LocaleDir is the generated catalog tree, <build root>/locale.
func (p *Pipeline) LocaleDir() string {
	return filepath.Join(p.opts.BuildRoot, locale.BuildDir)
}

func (p *Pipeline) fail(err error) error {
	p.stage = StageFailed
	return err
}

// Build runs the catalog pre-step and then the generic build step, which
// resolves the declared data files.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	result, err := p.DiscoverAndCompile(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := p.dataFiles.Resolve(p.opts.DataFiles)
	if err != nil {
		return nil, p.fail(err)
	}
	result.DataFiles = entries

	return result, nil
}

// Discover lists translation sources in lexical path order, applying the
// collision policy and language validation. A missing source directory
// yields no sources.
func (p *Pipeline) Discover() ([]*locale.TranslationSource, error) {
	if _, err := os.Stat(p.opts.SourceDir); errors.Is(err, fs.ErrNotExist) {
		p.logger.Warnw("translation source directory not found, no catalogs will be built", "dir", p.opts.SourceDir)
		return nil, nil
	}

	paths, err := datafiles.Glob(p.opts.SourceDir, p.opts.SourcePatterns)
	if err != nil {
		return nil, err
	}

	var sources []*locale.TranslationSource
	byLanguage := make(map[string]int)

	for _, path := range paths {
		src, err := locale.NewTranslationSource(path)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid translation source", err.Error())
		}
		if err := p.validateLanguage(src); err != nil {
			return nil, err
		}

		if i, ok := byLanguage[src.Language()]; ok {
			prev := sources[i]
			if p.opts.OnCollision != sharedConfig.CollisionLastWins {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("translation sources collide on language %q", src.Language()),
					fmt.Sprintf("%s and %s", prev.Path(), src.Path()),
				)
			}
			p.logger.Warnw("translation source replaced by a later one",
				"language", src.Language(), "dropped", prev.Path(), "kept", src.Path())
			sources[i] = src
			continue
		}

		byLanguage[src.Language()] = len(sources)
		sources = append(sources, src)
	}

	return sources, nil
}

// Catalogs lays out the compiled catalog of every discovered source without
// compiling anything.
func (p *Pipeline) Catalogs() ([]*locale.CompiledCatalog, error) {
	sources, err := p.Discover()
	if err != nil {
		return nil, err
	}
	catalogs := make([]*locale.CompiledCatalog, 0, len(sources))
	for _, src := range sources {
		catalogs = append(catalogs, locale.NewCompiledCatalog(src, p.opts.BuildRoot, p.opts.Product))
	}
	return catalogs, nil
}

func (p *Pipeline) validateLanguage(src *locale.TranslationSource) error {
	if !locale.IsPathSafe(src.Language()) {
		return apperrors.NewValidationError(
			fmt.Sprintf("language %q cannot be used as a directory name", src.Language()),
			src.Path(),
		)
	}

	err := locale.ValidateLanguage(src.Language())
	if err == nil {
		return nil
	}
	if p.opts.StrictLocales {
		return apperrors.NewValidationError("invalid language identifier", err.Error())
	}
	p.logger.Warnw("language identifier is not a recognised locale tag", "path", src.Path(), "error", err)
	return nil
}

// DiscoverAndCompile compiles every stale catalog and records each catalog,
// compiled or already up to date, as a pending install entry. The first
// compiler failure halts the pass.
func (p *Pipeline) DiscoverAndCompile(ctx context.Context) (*Result, error) {
	p.stage = StageDiscovering

	sources, err := p.Discover()
	if err != nil {
		return nil, p.fail(err)
	}
	p.logger.Debugw("discovered translation sources", "count", len(sources), "dir", p.opts.SourceDir)

	p.stage = StageCompiling
	result := &Result{Pending: locale.NewPendingInstallEntries()}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, p.fail(err)
		}

		catalog := locale.NewCompiledCatalog(src, p.opts.BuildRoot, p.opts.Product)
		if err := os.MkdirAll(catalog.OutputDir(), 0755); err != nil {
			return nil, p.fail(fmt.Errorf("failed to create catalog directory: %w", err))
		}

		stale, err := catalog.IsStale()
		if err != nil {
			return nil, p.fail(fmt.Errorf("failed to check %s: %w", src.Path(), err))
		}

		if stale || p.opts.Force {
			if err := p.compile(ctx, catalog); err != nil {
				return nil, p.fail(err)
			}
			result.Compiled = append(result.Compiled, src.Language())
		} else {
			p.logger.Debugw("catalog up to date", "language", src.Language(), "path", catalog.Output())
			result.UpToDate = append(result.UpToDate, src.Language())
		}

		result.Catalogs = append(result.Catalogs, catalog)
		entry := catalog.InstallEntry()
		result.Pending.Add(entry.Dir, entry.Files...)
	}

	p.logger.Infow("catalogs ready",
		"compiled", len(result.Compiled),
		"up_to_date", len(result.UpToDate))

	return result, nil
}

// compile writes into the build temp directory and moves the catalog into
// place only on success, leaving any previous catalog untouched on failure.
func (p *Pipeline) compile(ctx context.Context, catalog *locale.CompiledCatalog) error {
	tmpDir := filepath.Join(p.opts.BuildRoot, tempDir)
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	tmp := filepath.Join(tmpDir, catalog.Language()+".mo")
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove leftover %s: %w", tmp, err)
	}

	p.logger.Infow("compiling catalog", "language", catalog.Language(), "source", catalog.Source().Path())

	result, err := p.compiler.Compile(ctx, catalog.Source().Path(), tmp)
	if err != nil {
		_ = os.Remove(tmp)
		if result != nil && result.Stderr != "" {
			p.logger.Errorw("catalog compiler failed",
				"language", catalog.Language(),
				"exit_code", result.ExitCode,
				"stderr", result.Stderr)
		}
		return fmt.Errorf("failed to compile %s: %w", catalog.Source().Path(), err)
	}

	if err := os.Rename(tmp, catalog.Output()); err != nil {
		return fmt.Errorf("failed to move catalog into place: %w", err)
	}
	return nil
}

// Clean removes the build temp directory and, when all is set, the generated
// locale tree. Missing paths are ignored and other removal failures are only
// logged; Clean never fails.
func (p *Pipeline) Clean(all bool) {
	p.removeBestEffort(filepath.Join(p.opts.BuildRoot, tempDir))

	if all {
		dir := p.LocaleDir()
		if _, err := os.Stat(dir); err == nil {
			p.logger.Infow("removing generated catalogs", "dir", dir)
			p.removeBestEffort(dir)
		} else if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warnw("cannot inspect generated catalogs", "dir", dir, "error", err)
		}
	}

	p.stage = StageCleaned
}

func (p *Pipeline) removeBestEffort(path string) {
	err := p.removeAll(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	p.logger.Warnw("failed to remove build artifact", "path", path, "error", err)
}
