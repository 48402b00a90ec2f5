package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vburojevic/rogcat/internal/adb"
	"github.com/vburojevic/rogcat/internal/config"
	"github.com/vburojevic/rogcat/internal/output"
)

// CLI is the root command structure for rogcat
type CLI struct {
	// Global flags
	Format  string `default:"${config_format}" help:"Output format: csv, html, human, json, raw (default: human on stdout, raw on file output)"`
	Serial  string `short:"s" default:"${config_serial}" help:"Forward to adb -s to select a device"`
	Adb     string `default:"${config_adb}" help:"Path to the adb executable (default: adb on PATH)"`
	Quiet   bool   `short:"q" help:"Suppress diagnostics on stderr"`
	Verbose bool   `short:"v" help:"Show debug output (adb invocations, PID refreshes, restarts)"`

	// Commands
	Capture     CaptureCmd     `cmd:"" default:"withargs" help:"Capture, filter and write logs (default command)"`
	Devices     DevicesCmd     `cmd:"" help:"List attached devices"`
	Clear       ClearCmd       `cmd:"" help:"Clear logd buffers"`
	Log         LogCmd         `cmd:"" help:"Add a message to the device log"`
	Bugreport   BugreportCmd   `cmd:"" help:"Capture a bugreport into a file"`
	Completions CompletionsCmd `cmd:"" help:"Generate shell completions"`
	Config      ConfigCmd      `cmd:"" help:"Show or manage configuration"`
	Doctor      DoctorCmd      `cmd:"" help:"Check adb, devices and configuration"`
	Version     VersionCmd     `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Serial  string
	Adb     string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
	Config  *config.Config
	Logger  *zap.Logger

	// FlagsSet records flags given on the command line
	FlagsSet map[string]bool
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return NewGlobalsWithConfig(cli, config.Default())
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  cli.Format,
		Serial:  cli.Serial,
		Adb:     cli.Adb,
		Quiet:   cli.Quiet || cfg.Quiet,
		Verbose: cli.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
		Config:  cfg,
	}
	g.Logger = newLogger(g.Stderr, g.Quiet, g.Verbose)
	return g
}

// newLogger writes console-encoded entries to w: debug with verbose,
// warnings otherwise, nothing when quiet
func newLogger(w io.Writer, quiet, verbose bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Debug prints a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	g.logger().Sugar().Debugf(format, args...)
}

func (g *Globals) logger() *zap.Logger {
	if g.Logger == nil {
		g.Logger = newLogger(g.Stderr, g.Quiet, g.Verbose)
	}
	return g.Logger
}

// FlagProvided reports whether name was set on the command line
func (g *Globals) FlagProvided(name string) bool {
	return g.FlagsSet[name]
}

// JSON reports whether machine-readable output was requested
func (g *Globals) JSON() bool {
	return g.Format == output.FormatJSON
}

// Client returns an adb client for the selected device
func (g *Globals) Client() *adb.Client {
	opts := []adb.Option{adb.WithLogger(g.logger())}
	if g.Adb != "" {
		opts = append(opts, adb.WithPath(g.Adb))
	}
	if g.Serial != "" {
		opts = append(opts, adb.WithSerial(g.Serial))
	}
	return adb.NewClient(opts...)
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.JSON() {
		return output.NewEmitter(globals.Stdout).Raw(map[string]string{
			"type":    "version",
			"version": Version,
			"commit":  Commit,
		})
	}
	_, err := fmt.Fprintf(globals.Stdout, "rogcat version %s (%s)\n", Version, Commit)
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
