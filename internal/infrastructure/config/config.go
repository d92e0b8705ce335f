package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/batterymon/batterymon/internal/shared/config"
	"github.com/batterymon/batterymon/internal/shared/utils"
)

type Config struct {
	Product   sharedConfig.ProductConfig    `mapstructure:"product"`
	Paths     sharedConfig.PathsConfig      `mapstructure:"paths"`
	Locale    sharedConfig.LocaleConfig     `mapstructure:"locale"`
	Compiler  sharedConfig.CompilerConfig   `mapstructure:"compiler"`
	Runtime   sharedConfig.RuntimeConfig    `mapstructure:"runtime"`
	Logger    sharedConfig.LoggerConfig     `mapstructure:"logger"`
	DataFiles []sharedConfig.DataFileConfig `mapstructure:"data_files" validate:"dive"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from an optional config file and environment variables.
// An explicit configPath must exist; otherwise batterymon-setup.yaml is searched
// for in the working directory and ./configs, and its absence is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("batterymon-setup")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("BATTERYMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := utils.ValidateStruct(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Product defaults
	v.SetDefault("product.name", "batterymon")
	v.SetDefault("product.version", "1.3.0")

	// Path defaults
	v.SetDefault("paths.source_dir", "po")
	v.SetDefault("paths.build_root", "build")
	v.SetDefault("paths.prefix", "/usr/local")
	v.SetDefault("paths.root", "")

	// Locale defaults
	v.SetDefault("locale.source_patterns", []string{"*.po"})
	v.SetDefault("locale.on_collision", sharedConfig.CollisionError)
	v.SetDefault("locale.strict", false)

	// Compiler defaults
	v.SetDefault("compiler.command", "msgfmt")
	v.SetDefault("compiler.args", []string{"--check-format"})
	v.SetDefault("compiler.min_version", "")

	v.SetDefault("runtime.min_version", "go1.21")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stderr")

	// Icon sets shipped with the applet
	iconSets := []string{"16x16", "24x24_narrow", "24x24_wide", "default", "gnome"}
	dataFiles := make([]map[string]any, 0, len(iconSets))
	for _, set := range iconSets {
		dataFiles = append(dataFiles, map[string]any{
			"dir":      "share/batterymon/icons/" + set,
			"patterns": []string{"icons/" + set + "/*.png"},
		})
	}
	v.SetDefault("data_files", dataFiles)
}
