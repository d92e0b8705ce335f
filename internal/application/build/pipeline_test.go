package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batterymon/batterymon/internal/domain/locale"
	"github.com/batterymon/batterymon/internal/infrastructure/compiler"
	sharedConfig "github.com/batterymon/batterymon/internal/shared/config"
	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

// =====================================================================
// Fake compiler
// =====================================================================

type fakeCompiler struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeCompiler) Compile(_ context.Context, source, output string) (*compiler.Result, error) {
	lang := locale.LanguageFromPath(source)
	f.calls = append(f.calls, lang)

	if f.fail[lang] {
		res := &compiler.Result{ExitCode: 1, Stderr: source + ":1: syntax error"}
		return res, apperrors.NewCompileError("msgfmt failed for "+source, res.Stderr)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, err
	}
	return &compiler.Result{}, os.WriteFile(output, append([]byte("mo:"), data...), 0o644)
}

func (f *fakeCompiler) reset() {
	f.calls = nil
}

// =====================================================================
// Fixtures
// =====================================================================

type fixture struct {
	root      string
	sourceDir string
	buildRoot string
	compiler  *fakeCompiler
}

func newFixture(t *testing.T, sources ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		root:      root,
		sourceDir: filepath.Join(root, "po"),
		buildRoot: filepath.Join(root, "build"),
		compiler:  &fakeCompiler{fail: map[string]bool{}},
	}
	require.NoError(t, os.MkdirAll(f.sourceDir, 0o755))
	for _, name := range sources {
		f.writeSource(t, name, "msgid \"Battery\"\nmsgstr \""+name+"\"\n")
	}
	return f
}

func (f *fixture) writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.sourceDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (f *fixture) options() Options {
	return Options{
		Product:     "batterymon",
		ProjectRoot: f.root,
		SourceDir:   f.sourceDir,
		BuildRoot:   f.buildRoot,
	}
}

func (f *fixture) pipeline(opts Options) *Pipeline {
	return NewPipeline(opts, f.compiler, logger.NewNop())
}

func (f *fixture) catalogPath(lang string) string {
	return filepath.Join(f.buildRoot, "locale", lang, "LC_MESSAGES", "batterymon.mo")
}

// =====================================================================
// discover_and_compile
// =====================================================================

func TestDiscoverAndCompileProducesCatalogs(t *testing.T) {
	f := newFixture(t, "pt_BR.po", "fr.po")
	p := f.pipeline(f.options())
	assert.Equal(t, StageNotStarted, p.Stage())

	result, err := p.DiscoverAndCompile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StageCompiling, p.Stage())

	assert.FileExists(t, f.catalogPath("pt_BR"))
	assert.FileExists(t, f.catalogPath("fr"))
	assert.Equal(t, []string{"fr", "pt_BR"}, result.Compiled)
	assert.Empty(t, result.UpToDate)

	assert.Equal(t, []locale.InstallEntry{
		{Dir: "share/locale/fr/LC_MESSAGES", Files: []string{f.catalogPath("fr")}},
		{Dir: "share/locale/pt_BR/LC_MESSAGES", Files: []string{f.catalogPath("pt_BR")}},
	}, result.Pending.Entries())

	assert.NoFileExists(t, filepath.Join(f.buildRoot, "temp", "fr.mo"))
}

func TestDiscoverAndCompileIsIdempotent(t *testing.T) {
	f := newFixture(t, "pt_BR.po", "fr.po")

	_, err := f.pipeline(f.options()).DiscoverAndCompile(context.Background())
	require.NoError(t, err)
	require.Len(t, f.compiler.calls, 2)

	f.compiler.reset()
	result, err := f.pipeline(f.options()).DiscoverAndCompile(context.Background())
	require.NoError(t, err)

	assert.Empty(t, f.compiler.calls, "unchanged sources must not be recompiled")
	assert.Empty(t, result.Compiled)
	assert.Equal(t, []string{"fr", "pt_BR"}, result.UpToDate)
	assert.Equal(t, 2, result.Pending.Len(), "up-to-date catalogs are still installed")
}

func TestDiscoverAndCompileRecompilesTouchedSource(t *testing.T) {
	f := newFixture(t, "pt_BR.po", "fr.po")

	_, err := f.pipeline(f.options()).DiscoverAndCompile(context.Background())
	require.NoError(t, err)

	newer := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(f.sourceDir, "fr.po"), newer, newer))

	f.compiler.reset()
	result, err := f.pipeline(f.options()).DiscoverAndCompile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"fr"}, f.compiler.calls)
	assert.Equal(t, []string{"fr"}, result.Compiled)
	assert.Equal(t, []string{"pt_BR"}, result.UpToDate)
}

func TestDiscoverAndCompileForce(t *testing.T) {
	f := newFixture(t, "fr.po")

	_, err := f.pipeline(f.options()).DiscoverAndCompile(context.Background())
	require.NoError(t, err)

	f.compiler.reset()
	opts := f.options()
	opts.Force = true
	_, err = f.pipeline(opts).DiscoverAndCompile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fr"}, f.compiler.calls)
}

func TestDiscoverAndCompileExistingOutputDir(t *testing.T) {
	f := newFixture(t, "fr.po")
	require.NoError(t, os.MkdirAll(filepath.Dir(f.catalogPath("fr")), 0o755))

	_, err := f.pipeline(f.options()).DiscoverAndCompile(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, f.catalogPath("fr"))
}

func TestDiscoverAndCompileCompilerFailure(t *testing.T) {
	f := newFixture(t, "de.po", "fr.po")
	f.compiler.fail["fr"] = true

	// A previous good catalog must survive a failed recompile.
	require.NoError(t, os.MkdirAll(filepath.Dir(f.catalogPath("fr")), 0o755))
	require.NoError(t, os.WriteFile(f.catalogPath("fr"), []byte("previous"), 0o644))
	newer := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(f.sourceDir, "fr.po"), newer, newer))

	p := f.pipeline(f.options())
	result, err := p.DiscoverAndCompile(context.Background())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsCompileError(err))
	assert.Contains(t, err.Error(), "syntax error")
	assert.Equal(t, StageFailed, p.Stage())

	data, readErr := os.ReadFile(f.catalogPath("fr"))
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(data))
	assert.NoFileExists(t, filepath.Join(f.buildRoot, "temp", "fr.mo"))
}

func TestDiscoverAndCompileMissingSourceDir(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.SourceDir = filepath.Join(f.root, "nope")

	result, err := f.pipeline(opts).DiscoverAndCompile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Pending.Len())
	assert.Empty(t, f.compiler.calls)
}

func TestDiscoverAndCompileCancelled(t *testing.T) {
	f := newFixture(t, "fr.po")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := f.pipeline(f.options())
	_, err := p.DiscoverAndCompile(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StageFailed, p.Stage())
	assert.Empty(t, f.compiler.calls)
}

func TestDiscoverIgnoresNonMatchingFiles(t *testing.T) {
	f := newFixture(t, "fr.po", "batterymon.pot", "README")

	sources, err := f.pipeline(f.options()).Discover()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "fr", sources[0].Language())
}

func TestDiscoverCollision(t *testing.T) {
	f := newFixture(t, "fr.po")
	f.writeSource(t, "fr.pox", "msgid \"\"\n")
	opts := f.options()
	opts.SourcePatterns = []string{"*.po", "*.pox"}

	_, err := f.pipeline(opts).Discover()
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Contains(t, err.Error(), `collide on language "fr"`)

	opts.OnCollision = sharedConfig.CollisionLastWins
	sources, err := f.pipeline(opts).Discover()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, filepath.Join(f.sourceDir, "fr.pox"), sources[0].Path())
}

func TestDiscoverLanguageValidation(t *testing.T) {
	f := newFixture(t, "fr.po", "123.po")

	sources, err := f.pipeline(f.options()).Discover()
	require.NoError(t, err, "unrecognised tags only warn by default")
	assert.Len(t, sources, 2)

	opts := f.options()
	opts.StrictLocales = true
	_, err = f.pipeline(opts).Discover()
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

// =====================================================================
// Build and extend_install_manifest
// =====================================================================

func TestBuildResolvesDataFiles(t *testing.T) {
	f := newFixture(t, "fr.po")
	icon := filepath.Join(f.root, "icons", "16x16", "battery_full.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(icon), 0o755))
	require.NoError(t, os.WriteFile(icon, []byte("png"), 0o644))

	opts := f.options()
	opts.DataFiles = []sharedConfig.DataFileConfig{
		{Dir: "share/batterymon/icons/16x16", Patterns: []string{"icons/16x16/*.png"}},
	}
	p := f.pipeline(opts)

	result, err := p.Build(context.Background())
	require.NoError(t, err)

	manifest := p.Manifest(result)
	assert.Equal(t, StageManifestExtended, p.Stage())
	assert.Equal(t, []locale.InstallEntry{
		{Dir: "share/batterymon/icons/16x16", Files: []string{icon}},
		{Dir: "share/locale/fr/LC_MESSAGES", Files: []string{f.catalogPath("fr")}},
	}, manifest.Entries())
	assert.Equal(t, 2, manifest.FileCount())
}

func TestExtendInstallManifestWithoutBuild(t *testing.T) {
	f := newFixture(t)
	p := f.pipeline(f.options())
	manifest := NewManifest()

	p.ExtendInstallManifest(manifest, nil)

	assert.Empty(t, manifest.Entries())
	assert.Equal(t, StageManifestExtended, p.Stage())
}

// =====================================================================
// clean_generated_artifacts
// =====================================================================

func TestCleanAllRemovesLocaleDir(t *testing.T) {
	f := newFixture(t, "fr.po")
	p := f.pipeline(f.options())
	_, err := p.DiscoverAndCompile(context.Background())
	require.NoError(t, err)

	p.Clean(false)
	assert.DirExists(t, p.LocaleDir(), "plain clean keeps catalogs")
	assert.FileExists(t, f.catalogPath("fr"))
	assert.Equal(t, StageCleaned, p.Stage())

	p.Clean(true)
	assert.NoDirExists(t, p.LocaleDir())
	assert.DirExists(t, f.buildRoot)
}

func TestCleanRemovesTempDir(t *testing.T) {
	f := newFixture(t)
	temp := filepath.Join(f.buildRoot, "temp")
	require.NoError(t, os.MkdirAll(temp, 0o755))

	f.pipeline(f.options()).Clean(false)
	assert.NoDirExists(t, temp)
}

func TestCleanWithoutGeneratedTree(t *testing.T) {
	f := newFixture(t)
	p := f.pipeline(f.options())

	assert.NotPanics(t, func() { p.Clean(true) })
	assert.Equal(t, StageCleaned, p.Stage())
}

func TestCleanSwallowsRemovalFailures(t *testing.T) {
	f := newFixture(t, "fr.po")
	p := f.pipeline(f.options())
	_, err := p.DiscoverAndCompile(context.Background())
	require.NoError(t, err)

	var removed []string
	p.removeAll = func(path string) error {
		removed = append(removed, path)
		if path == p.LocaleDir() {
			return &os.PathError{Op: "unlinkat", Path: path, Err: errors.New("permission denied")}
		}
		return os.ErrNotExist
	}

	p.Clean(true)
	assert.Equal(t, []string{filepath.Join(f.buildRoot, "temp"), p.LocaleDir()}, removed)
	assert.Equal(t, StageCleaned, p.Stage())
	assert.DirExists(t, p.LocaleDir())
}

func TestCatalogsDoesNotCompile(t *testing.T) {
	f := newFixture(t, "fr.po", "pt_BR.po")

	catalogs, err := f.pipeline(f.options()).Catalogs()
	require.NoError(t, err)
	require.Len(t, catalogs, 2)
	assert.Equal(t, f.catalogPath("fr"), catalogs[0].Output())
	assert.Empty(t, f.compiler.calls)
	assert.NoDirExists(t, f.buildRoot)
}
