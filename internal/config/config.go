// Package config loads scrumdealer settings from defaults, an optional YAML
// file and SCRUMDEALER_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides, e.g.
// SCRUMDEALER_OUTPUT_FORMAT for output.format.
const EnvPrefix = "SCRUMDEALER"

// Config represents the complete scrumdealer configuration
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Checks  ChecksConfig  `mapstructure:"checks"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// OutputConfig controls how schedules are rendered
type OutputConfig struct {
	// Format is one of "table", "json", "markdown", "dot", "ascii"
	Format string `mapstructure:"format"`
	// Color enables ANSI colors in terminal output
	Color bool `mapstructure:"color"`
	// ReadableDuration prints the project duration in months and days
	ReadableDuration bool `mapstructure:"readable_duration"`
	// Template is an optional text/template file for markdown reports
	Template string `mapstructure:"template"`
}

// ChecksConfig toggles the project-level network checks
type ChecksConfig struct {
	MultipleStarts bool `mapstructure:"multiple_starts"`
	Isolated       bool `mapstructure:"isolated"`
	DanglingEnd    bool `mapstructure:"dangling_end"`
	DummyCritical  bool `mapstructure:"dummy_critical"`
}

// LoggingConfig controls the structured debug log
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level"`
	// Dir is the directory holding scrumdealer.log; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// ServerConfig controls the HTTP scheduling server
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:           "table",
			Color:            true,
			ReadableDuration: true,
		},
		Checks: ChecksConfig{
			MultipleStarts: true,
			Isolated:       true,
			DanglingEnd:    true,
			DummyCritical:  true,
		},
		Logging: LoggingConfig{
			Level: "WARN",
		},
		Server: ServerConfig{
			Addr:         ":7171",
			MaxBodyBytes: 1 << 20,
		},
	}
}

// SetDefaults registers every default value with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)
	viper.SetDefault("output.readable_duration", defaults.Output.ReadableDuration)
	viper.SetDefault("output.template", defaults.Output.Template)

	viper.SetDefault("checks.multiple_starts", defaults.Checks.MultipleStarts)
	viper.SetDefault("checks.isolated", defaults.Checks.Isolated)
	viper.SetDefault("checks.dangling_end", defaults.Checks.DanglingEnd)
	viper.SetDefault("checks.dummy_critical", defaults.Checks.DummyCritical)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("server.max_body_bytes", defaults.Server.MaxBodyBytes)
}

// Init wires viper to the config file and environment. An explicit cfgFile
// wins; otherwise ./.scrumdealer.yaml and then ConfigFile() are tried. Only an
// explicit file is required to exist.
func Init(cfgFile string) error {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return viper.ReadInConfig()
	}

	for _, candidate := range []string{".scrumdealer.yaml", ConfigFile()} {
		if fileExists(candidate) {
			viper.SetConfigFile(candidate)
			return viper.ReadInConfig()
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the configuration from viper into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scrumdealer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scrumdealer"
	}
	return filepath.Join(home, ".config", "scrumdealer")
}

// ConfigFile returns the path to the user-level config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
