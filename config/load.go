package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/format"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults() when no file exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved path.
// The path is empty when no config file was found.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg := Defaults()
		if wd, err := os.Getwd(); err == nil {
			cfg.BaseDir = wd
		}
		return cfg, "", nil
	}

	// Get absolute path and directory for resolving relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", lerrors.Wrap("IO-0001", err, map[string]any{"Path": path})
	}

	cfg, err := parse(data, getenv)
	if err != nil {
		return nil, "", lerrors.Wrap("CONFIG-0001", err, map[string]any{"Path": path})
	}

	cfg.BaseDir = baseDir

	// Resolve relative sqlite path
	if cfg.Cache.Path != "" && !filepath.IsAbs(cfg.Cache.Path) {
		cfg.Cache.Path = filepath.Join(baseDir, cfg.Cache.Path)
	}

	if err := validateBasic(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// parse interpolates the environment into data and decodes it over the defaults.
func parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configSource is one place a configuration file may come from.
type configSource struct {
	path     string
	required bool   // a missing file is an error rather than a reason to look further
	origin   string // named in the error for a missing required file
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > LUNA_CONFIG env > ./luna.yaml > ~/.config/luna/luna.yaml
// It returns "" when none of the optional locations exist.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	sources := []configSource{
		{path: explicit, required: true, origin: "config file"},
		{path: getenv("LUNA_CONFIG"), required: true, origin: "LUNA_CONFIG file"},
		{path: "luna.yaml"},
	}
	if home, err := os.UserHomeDir(); err == nil {
		sources = append(sources, configSource{path: filepath.Join(home, ".config", "luna", "luna.yaml")})
	}

	for _, src := range sources {
		if src.path == "" {
			continue
		}
		_, err := os.Stat(src.path)
		switch {
		case err == nil:
			return src.path, nil
		case src.required:
			return "", fmt.Errorf("%s not found: %s", src.origin, src.path)
		}
	}
	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv substitutes ${VAR} and ${VAR:-default}. An unset or empty
// variable takes the default, or the empty string.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	var out []byte
	last := 0
	for _, m := range envPattern.FindAllSubmatchIndex(data, -1) {
		out = append(out, data[last:m[0]]...)
		value := getenv(string(data[m[2]:m[3]]))
		if value == "" && m[4] >= 0 {
			value = string(data[m[4]:m[5]])
		}
		out = append(out, value...)
		last = m[1]
	}
	if out == nil {
		return data
	}
	return append(out, data[last:]...)
}

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	return validateBasic(cfg)
}

// validateBasic collects every configuration problem into one error.
func validateBasic(cfg *Config) error {
	var errs []string

	// Format validation
	if _, err := format.ParseIndentationMode(cfg.Format.Indentation); err != nil {
		errs = append(errs, fmt.Sprintf("format.indentation: %v", err))
	}
	if cfg.Format.IndentWidth < 0 || cfg.Format.IndentWidth > 16 {
		errs = append(errs, fmt.Sprintf("format.indent_width: %d (must be 0-16)", cfg.Format.IndentWidth))
	}
	spacing := format.DefaultOperatorSpacing()
	for name := range cfg.Format.Spacing {
		if _, ok := spacing.Get(name); !ok {
			msg := fmt.Sprintf("format.spacing: unknown operator %q", name)
			if suggestion := lerrors.FindClosestMatch(name, spacing.Names()); suggestion != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			errs = append(errs, msg)
		}
	}

	// Files validation
	for i, ext := range cfg.Files.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("files.extensions[%d]: %q must start with '.'", i, ext))
		}
	}

	// Cache validation
	switch cfg.Cache.Driver {
	case "sqlite":
	case "postgres", "mysql":
		if cfg.Cache.Enabled && cfg.Cache.DSN == "" {
			errs = append(errs, fmt.Sprintf("cache.dsn is required for driver %s", cfg.Cache.Driver))
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.driver: %q (must be sqlite, postgres, or mysql)", cfg.Cache.Driver))
	}
	if _, err := ParseSize(cfg.Cache.MaxSize); err != nil {
		errs = append(errs, fmt.Sprintf("cache.max_size: %v", err))
	}
	if cfg.Cache.TruncatePct < 1 || cfg.Cache.TruncatePct > 100 {
		errs = append(errs, fmt.Sprintf("cache.truncate_pct: %d (must be 1-100)", cfg.Cache.TruncatePct))
	}

	// Watch validation
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("watch.debounce: %s (must not be negative)", cfg.Watch.Debounce))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be json or text)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Settings converts the format section into formatter settings.
func (c *Config) Settings() (format.Settings, error) {
	s := format.DefaultSettings()

	mode, err := format.ParseIndentationMode(c.Format.Indentation)
	if err != nil {
		return s, err
	}
	s.Indentation = format.Indentation{Mode: mode, Width: c.Format.IndentWidth}

	for name, spaced := range c.Format.Spacing {
		if err := s.OperatorSpacing.Set(name, spaced); err != nil {
			return s, err
		}
	}
	return s, nil
}

// ParseSize parses a size such as "10MB", "1.5GB" or "512" into bytes.
// KB, MB and GB are binary units, the same as KiB, MiB and GiB.
// The empty string is zero.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	upper := strings.ToUpper(s)
	for _, unit := range []string{"KB", "MB", "GB"} {
		if strings.HasSuffix(upper, unit) {
			s = s[:len(s)-2] + unit[:1] + "iB"
			break
		}
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q (use B, KB, MB, or GB suffix)", s)
	}
	return int64(n), nil
}
