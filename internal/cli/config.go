package cli

import (
	"fmt"
	"strings"

	"github.com/vburojevic/rogcat/internal/config"
	"github.com/vburojevic/rogcat/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration and profiles file paths"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.JSON() {
		return output.NewEmitter(globals.Stdout).Raw(map[string]interface{}{
			"type":             "config",
			"schemaVersion":    output.SchemaVersion,
			"format":           cfg.Format,
			"level":            cfg.Level,
			"quiet":            cfg.Quiet,
			"verbose":          cfg.Verbose,
			"adb":              cfg.Adb,
			"serial":           cfg.Serial,
			"buffer":           cfg.Buffer,
			"packages":         cfg.Packages,
			"restart":          cfg.Restart,
			"records_per_file": cfg.RecordsPerFile,
			"filename_format":  cfg.FilenameFormat,
			"profiles_path":    cfg.ProfilesPath,
			"config_file":      config.ConfigFile(),
		})
	}

	w := globals.Stdout
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  format:           %s\n", orDefault(cfg.Format, "(auto)"))
	fmt.Fprintf(w, "  level:            %s\n", orDefault(cfg.Level, "(all)"))
	fmt.Fprintf(w, "  quiet:            %v\n", cfg.Quiet)
	fmt.Fprintf(w, "  verbose:          %v\n", cfg.Verbose)
	fmt.Fprintf(w, "  adb:              %s\n", orDefault(cfg.Adb, "(PATH)"))
	fmt.Fprintf(w, "  serial:           %s\n", orDefault(cfg.Serial, "(any)"))
	fmt.Fprintf(w, "  buffer:           %s\n", orDefault(strings.Join(cfg.Buffer, ", "), "(default)"))
	fmt.Fprintf(w, "  packages:         %s\n", orDefault(strings.Join(cfg.Packages, ", "), "(none)"))
	fmt.Fprintf(w, "  restart:          %v\n", cfg.Restart)
	fmt.Fprintf(w, "  records_per_file: %s\n", orDefault(cfg.RecordsPerFile, "(unlimited)"))
	fmt.Fprintf(w, "  filename_format:  %s\n", cfg.FilenameFormat)
	fmt.Fprintf(w, "  profiles_path:    %s\n", config.ProfilesPath(cfg.ProfilesPath))

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Loaded from: %s\n", path)
	}

	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()
	profilesPath := ""
	if globals.Config != nil {
		profilesPath = globals.Config.ProfilesPath
	}
	profiles := config.ProfilesPath(profilesPath)

	if globals.JSON() {
		return output.NewEmitter(globals.Stdout).Raw(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
			"profiles":      profiles,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.rogcat.toml")
		fmt.Fprintf(globals.Stdout, "  %s/config.toml\n", config.Dir())
		fmt.Fprintln(globals.Stdout, "  /etc/rogcat/config.toml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}
	fmt.Fprintf(globals.Stdout, "Profiles file: %s\n", profiles)

	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct {
	Profiles bool `help:"Generate a sample profiles file instead"`
}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	sample := sampleConfig
	if c.Profiles {
		sample = sampleProfiles
	}
	_, err := fmt.Fprint(globals.Stdout, sample)
	return err
}

const sampleConfig = `# rogcat configuration file
# Place this file at ./.rogcat.toml, <config dir>/rogcat/config.toml
# or /etc/rogcat/config.toml

# Output format: csv, html, human, json or raw.
# Empty picks human on stdout and raw for --output files.
# format = "human"

# Minimum level: trace, debug, info, warn, error, fatal, assert
# level = "info"

# Suppress diagnostics on stderr
quiet = false

# Enable verbose/debug output
verbose = false

# adb executable (default: adb on PATH)
# adb = "/opt/android-sdk/platform-tools/adb"

# Device serial forwarded to adb -s
# serial = "emulator-5554"

# Logcat buffers (default: main, events, kernel, crash)
# buffer = ["main", "crash"]

# Only keep records from processes of these packages
# packages = ["com.example.app"]

# Restart adb logcat when it exits
restart = true

# File output
# records_per_file = "100k"
filename_format = "single"

# profiles_path = "/path/to/profiles.toml"
`

const sampleProfiles = `# rogcat profiles file
# Select a profile with: rogcat -p <name>

[profile.base]
comment = "Crash and main buffers"
buffer = ["main", "crash"]

[profile.app]
comment = "My app and its services"
extends = ["base"]
packages = ["com.example.app", "com.example.app:sync"]
level = "info"
`
