package config

type ProductConfig struct {
	Name    string `mapstructure:"name" validate:"required,excludesall=/"`
	Version string `mapstructure:"version"`
}

type PathsConfig struct {
	SourceDir string `mapstructure:"source_dir" validate:"required"`
	BuildRoot string `mapstructure:"build_root" validate:"required"`
	Prefix    string `mapstructure:"prefix" validate:"required"`
	Root      string `mapstructure:"root"`
}

// Collision policies for two translation sources deriving the same language.
const (
	CollisionError    = "error"
	CollisionLastWins = "last_wins"
)

type LocaleConfig struct {
	SourcePatterns []string `mapstructure:"source_patterns" validate:"required,min=1,dive,required"`
	OnCollision    string   `mapstructure:"on_collision" validate:"oneof=error last_wins"`
	Strict         bool     `mapstructure:"strict"`
}

type CompilerConfig struct {
	Command    string   `mapstructure:"command" validate:"required"`
	Args       []string `mapstructure:"args"`
	MinVersion string   `mapstructure:"min_version"`
}

type RuntimeConfig struct {
	MinVersion string `mapstructure:"min_version"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
}

// DataFileConfig declares one install directory and the glob patterns whose
// matches are installed into it.
type DataFileConfig struct {
	Dir      string   `mapstructure:"dir" validate:"required"`
	Patterns []string `mapstructure:"patterns" validate:"required,min=1"`
}
