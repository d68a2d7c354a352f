package config

// Config represents the complete mp3edit configuration.
type Config struct {
	Log LogConfig `yaml:"log"`

	// Dispatcher holds options passed through to dispatch.Setup. No keys are
	// recognised yet; anything here is accepted and ignored.
	Dispatcher map[string]any `yaml:"dispatcher,omitempty"`

	// Set by Load, not read from YAML.
	SourcePath  string `yaml:"-"`
	Fingerprint string `yaml:"-"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns a Config with the built-in settings.
func Defaults() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Dispatcher: map[string]any{},
	}
}
