package config

import "time"

// Config represents the complete Luna configuration
type Config struct {
	BaseDir string        `yaml:"-"` // Directory containing config file, for resolving relative paths
	Format  FormatConfig  `yaml:"format"`
	Files   FilesConfig   `yaml:"files"`
	Cache   CacheConfig   `yaml:"cache"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// FormatConfig holds the formatter settings
type FormatConfig struct {
	Indentation string          `yaml:"indentation"`  // none, spaces or tabs (default: spaces)
	IndentWidth int             `yaml:"indent_width"` // characters per level (default: 4)
	Spacing     map[string]bool `yaml:"spacing"`      // per-operator overrides, e.g. "negate: true"
}

// FilesConfig selects which files the fmt command picks up when walking directories
type FilesConfig struct {
	Extensions StringOrSlice `yaml:"extensions"` // default: .lua, .luau
	Markdown   bool          `yaml:"markdown"`   // also format fenced code in .md files
	Exclude    StringOrSlice `yaml:"exclude"`    // directory names skipped while walking
}

// CacheConfig holds the format cache settings
type CacheConfig struct {
	Enabled     bool   `yaml:"enabled"`      // default: true
	Driver      string `yaml:"driver"`       // sqlite (default), postgres or mysql
	DSN         string `yaml:"dsn"`          // connection string for postgres and mysql
	Path        string `yaml:"path"`         // sqlite database file (default: <cache dir>/luna/cache.db)
	MaxSize     string `yaml:"max_size"`     // maximum stored payload (default: "10MB")
	TruncatePct int    `yaml:"truncate_pct"` // percentage of oldest entries deleted when full (default: 25)
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"` // default: 100ms
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
}

// StringOrSlice supports YAML fields that can be either a string or a slice of strings
type StringOrSlice []string

// UnmarshalYAML implements yaml.Unmarshaler to handle both string and []string
func (s *StringOrSlice) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}

	var slice []string
	if err := unmarshal(&slice); err != nil {
		return err
	}
	*s = slice
	return nil
}

// Contains checks if the slice contains the given string
func (s StringOrSlice) Contains(str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Format: FormatConfig{
			Indentation: "spaces",
			IndentWidth: 4,
		},
		Files: FilesConfig{
			Extensions: StringOrSlice{".lua", ".luau"},
			Markdown:   false,
			Exclude:    StringOrSlice{".git", "node_modules"},
		},
		Cache: CacheConfig{
			Enabled:     true,
			Driver:      "sqlite",
			MaxSize:     "10MB",
			TruncatePct: 25,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}
