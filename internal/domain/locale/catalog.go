package locale

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// BuildDir is the directory under the build root holding compiled catalogs.
const BuildDir = "locale"

// CompiledCatalog pairs a translation source with its compiled output and the
// directory, relative to the install prefix, it is installed into.
type CompiledCatalog struct {
	source     *TranslationSource
	output     string
	installDir string
}

// NewCompiledCatalog lays out <buildRoot>/locale/<lang>/LC_MESSAGES/<domain>.mo
// for the source, installed into share/locale/<lang>/LC_MESSAGES.
func NewCompiledCatalog(source *TranslationSource, buildRoot, domain string) *CompiledCatalog {
	return &CompiledCatalog{
		source:     source,
		output:     filepath.Join(buildRoot, BuildDir, source.Language(), "LC_MESSAGES", domain+".mo"),
		installDir: InstallDir(source.Language()),
	}
}

// InstallDir is the conventional install directory for a language's catalogs.
// It always uses forward slashes.
func InstallDir(lang string) string {
	return path.Join("share", "locale", lang, "LC_MESSAGES")
}

func (c *CompiledCatalog) Source() *TranslationSource {
	return c.source
}

func (c *CompiledCatalog) Language() string {
	return c.source.Language()
}

func (c *CompiledCatalog) Output() string {
	return c.output
}

func (c *CompiledCatalog) OutputDir() string {
	return filepath.Dir(c.output)
}

func (c *CompiledCatalog) InstallDir() string {
	return c.installDir
}

// IsStale reports whether the catalog must be (re)compiled: the output is
// missing, or the source was modified after it.
func (c *CompiledCatalog) IsStale() (bool, error) {
	src, err := os.Stat(c.source.Path())
	if err != nil {
		return false, err
	}

	out, err := os.Stat(c.output)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return src.ModTime().After(out.ModTime()), nil
}

// InstallEntry returns the manifest entry installing this catalog.
func (c *CompiledCatalog) InstallEntry() InstallEntry {
	return InstallEntry{Dir: c.installDir, Files: []string{c.output}}
}
