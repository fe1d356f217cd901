// Package config loads the YAML configuration shared by the bptree commands.
package config

// Config holds the complete configuration.
type Config struct {
	Order  int          `yaml:"order"` // Order of indexes created over HTTP without one
	Log    LogConfig    `yaml:"log"`
	Script ScriptConfig `yaml:"script"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig selects the logging backend.
type LogConfig struct {
	Format string `yaml:"format"` // zap, logrus or discard
	Level  string `yaml:"level"`
}

// ScriptConfig holds instruction file driver settings.
type ScriptConfig struct {
	Output     string `yaml:"output"`
	Strict     bool   `yaml:"strict"`
	LineEnding string `yaml:"lineEnding"` // crlf or lf
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Listen         string `yaml:"listen"`
	RangeCacheSize uint32 `yaml:"rangeCacheSize"` // Cached range results per index, 0 disables
	MaxIndexes     int    `yaml:"maxIndexes"`     // 0 means unlimited
}

// Log formats.
const (
	LogFormatZap     = "zap"
	LogFormatLogrus  = "logrus"
	LogFormatDiscard = "discard"
)

// Line endings.
const (
	LineEndingCRLF = "crlf"
	LineEndingLF   = "lf"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Order: 3,
		Log: LogConfig{
			Format: LogFormatZap,
			Level:  "info",
		},
		Script: ScriptConfig{
			Output:     "output_file.txt",
			Strict:     false,
			LineEnding: LineEndingCRLF,
		},
		Server: ServerConfig{
			Listen:         ":3000",
			RangeCacheSize: 1024,
			MaxIndexes:     0,
		},
	}
}
