package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "github.com/batterymon/batterymon/internal/shared/config"
	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batterymon-setup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "batterymon", cfg.Product.Name)
	assert.Equal(t, "po", cfg.Paths.SourceDir)
	assert.Equal(t, "build", cfg.Paths.BuildRoot)
	assert.Equal(t, "/usr/local", cfg.Paths.Prefix)
	assert.Equal(t, []string{"*.po"}, cfg.Locale.SourcePatterns)
	assert.Equal(t, sharedConfig.CollisionError, cfg.Locale.OnCollision)
	assert.Equal(t, "msgfmt", cfg.Compiler.Command)
	assert.Equal(t, "stderr", cfg.Logger.OutputPath)

	require.Len(t, cfg.DataFiles, 5)
	assert.Equal(t, "share/batterymon/icons/16x16", cfg.DataFiles[0].Dir)
	assert.Equal(t, []string{"icons/16x16/*.png"}, cfg.DataFiles[0].Patterns)
	assert.Equal(t, "share/batterymon/icons/gnome", cfg.DataFiles[4].Dir)

	assert.Same(t, cfg, Get())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
paths:
  source_dir: translations
  build_root: out
locale:
  on_collision: last_wins
  strict: true
compiler:
  command: /opt/gettext/bin/msgfmt
  min_version: "0.19"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "translations", cfg.Paths.SourceDir)
	assert.Equal(t, "out", cfg.Paths.BuildRoot)
	assert.Equal(t, "/usr/local", cfg.Paths.Prefix, "unset keys keep defaults")
	assert.Equal(t, sharedConfig.CollisionLastWins, cfg.Locale.OnCollision)
	assert.True(t, cfg.Locale.Strict)
	assert.Equal(t, "/opt/gettext/bin/msgfmt", cfg.Compiler.Command)
	assert.Equal(t, "0.19", cfg.Compiler.MinVersion)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BATTERYMON_PATHS_BUILD_ROOT", "/tmp/batterymon-build")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/batterymon-build", cfg.Paths.BuildRoot)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name:    "unknown collision policy",
			content: "locale:\n  on_collision: first_wins\n",
			field:   "locale.on_collision",
		},
		{
			name:    "empty compiler",
			content: "compiler:\n  command: \"\"\n",
			field:   "compiler.command",
		},
		{
			name:    "product name with a slash",
			content: "product:\n  name: battery/mon\n",
			field:   "product.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, apperrors.IsValidationError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
