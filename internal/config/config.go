package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Level   string `mapstructure:"level"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Device access
	Adb    string `mapstructure:"adb"`    // explicit adb executable
	Serial string `mapstructure:"serial"` // default device selector

	// Capture defaults
	Buffer         []string `mapstructure:"buffer"`
	Packages       []string `mapstructure:"packages"`
	Restart        bool     `mapstructure:"restart"`
	RecordsPerFile string   `mapstructure:"records_per_file"`
	FilenameFormat string   `mapstructure:"filename_format"`
	ProfilesPath   string   `mapstructure:"profiles_path"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Restart:        true,
		FilenameFormat: "single",
	}
}

// Dir returns the per-user configuration directory
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".rogcat")
	}
	return filepath.Join(dir, "rogcat")
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.rogcat.toml
// 2. $XDG_CONFIG_HOME/rogcat/config.toml (or the platform equivalent)
// 3. /etc/rogcat/config.toml
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		loaded, err := LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	var searchPaths []string

	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(cwd, ".rogcat.toml"))
	}
	searchPaths = append(searchPaths,
		filepath.Join(Dir(), "config.toml"),
		filepath.Join("/etc", "rogcat", "config.toml"),
	)

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ROGCAT_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("ROGCAT_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("ROGCAT_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("ROGCAT_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("ROGCAT_ADB"); v != "" {
		cfg.Adb = v
	}
	if v := os.Getenv("ANDROID_SERIAL"); v != "" {
		cfg.Serial = v
	}
	if v := os.Getenv("ROGCAT_SERIAL"); v != "" {
		cfg.Serial = v
	}
	if v := os.Getenv("ROGCAT_PACKAGES"); v != "" {
		cfg.Packages = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
