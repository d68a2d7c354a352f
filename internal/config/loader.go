package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "MP3EDIT_CONFIG"

var (
	// ErrInvalidLogLevel is returned for a log.level outside debug/info/warn/error.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned for a log.format other than json or text.
	ErrInvalidLogFormat = errors.New("invalid log format")
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// DefaultPath returns ~/.config/mp3edit/config.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mp3edit", "config.yaml"), nil
}

// Resolve picks the config file to use.
// Priority order: flag value, $MP3EDIT_CONFIG, ~/.config/mp3edit/config.yaml.
// explicit is false only for the default location, which may be absent.
func Resolve(flagPath string) (path string, explicit bool, err error) {
	if flagPath != "" {
		return flagPath, true, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true, nil
	}
	path, err = DefaultPath()
	return path, false, err
}

// LoadResolved resolves the config path and loads it. A missing file at the
// default location yields Defaults(); a missing explicit file is an error.
func LoadResolved(flagPath string) (*Config, error) {
	path, explicit, err := Resolve(flagPath)
	if err != nil {
		return nil, err
	}
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
	}
	return Load(path)
}

// Load reads, interpolates, parses and validates a config file.
func Load(configPath string) (*Config, error) {
	expanded, err := homedir.Expand(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %q: %w", configPath, err)
	}
	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w\n"+
				"Hint: Check the path or run with --config flag", absPath, err)
		}
		return nil, fmt.Errorf("read config %s: %w", absPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}
	cfg.SourcePath = absPath
	cfg.Fingerprint = Fingerprint(data)
	return cfg, nil
}

// Parse decodes YAML config bytes on top of Defaults() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()

	dec := yaml.NewDecoder(bytes.NewReader([]byte(interpolateEnv(string(data)))))
	dec.KnownFields(true)
	// An empty or comment-only file decodes to io.EOF and means defaults.
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// interpolateEnv replaces ${VAR} with its environment value. Unset variables
// are left as-is.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = map[string]any{}
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
}

// validate performs basic validation on the configuration.
func validate(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error (got %q): %w", cfg.Log.Level, ErrInvalidLogLevel)
	}

	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q): %w", cfg.Log.Format, ErrInvalidLogFormat)
	}
	return nil
}
