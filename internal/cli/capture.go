package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/rogcat/internal/adb"
	"github.com/vburojevic/rogcat/internal/capture"
	"github.com/vburojevic/rogcat/internal/config"
	"github.com/vburojevic/rogcat/internal/domain"
	"github.com/vburojevic/rogcat/internal/filter"
	"github.com/vburojevic/rogcat/internal/metrics"
	"github.com/vburojevic/rogcat/internal/output"
	"github.com/vburojevic/rogcat/internal/process"
)

// CaptureCmd streams records from a device, a command, stdin or files
// through the level and package filters into the chosen output.
type CaptureCmd struct {
	Command string `arg:"" optional:"" help:"Command to read records from instead of adb logcat; - reads stdin"`

	CaptureSourceFlags
	CaptureFilterFlags
	CaptureOutputFlags
}

// captureSettings are the flags merged with profile and config defaults
type captureSettings struct {
	Packages       []string
	Level          domain.Level
	Buffers        []string
	FilenameFormat string
	RecordsPerFile uint64
}

// Run executes the capture command
func (c *CaptureCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, globals)
}

func (c *CaptureCmd) run(ctx context.Context, globals *Globals) error {
	if err := c.validate(); err != nil {
		return outputCLIError(globals, err)
	}
	settings, err := c.resolve(globals)
	if err != nil {
		return outputCLIError(globals, err)
	}

	emitter := output.NewEmitter(globals.Stdout)
	client := globals.Client()

	var m *metrics.Metrics
	if c.MetricsFile != "" {
		m = metrics.New()
	}

	source, restart, err := c.source(globals, client, settings)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_COMMAND", err.Error())
	}
	globals.Debug("Source: %s (restart: %v)", source, restart)

	chain := filter.NewChain()
	if settings.Level != domain.LevelNone {
		chain.Add(filter.NewLevelFilter(settings.Level))
	}
	if len(settings.Packages) > 0 {
		globals.Debug("Watching packages: %v", settings.Packages)
		pids := process.NewFilter(settings.Packages, client,
			process.WithLogger(globals.logger()),
			process.WithMetrics(m),
		)
		chain.Add(filter.NewProcessFilter(pids))
	}

	writer, err := c.writer(globals, emitter, settings)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_OUTPUT", err.Error())
	}

	run := capture.New(capture.Options{
		Source:  source,
		Writer:  writer,
		Filters: chain,
		Head:    c.Head,
		Restart: restart,
		Clock:   clock.New(),
		Logger:  globals.logger(),
		Metrics: m,
	})
	summary, runErr := run.Run(ctx)

	closeErr := writer.Close()
	if err := m.WriteTextfile(c.MetricsFile); err != nil {
		emitWarning(globals, emitter, fmt.Sprintf("failed to write metrics: %v", err))
	}

	if runErr != nil {
		return outputErrorCommon(globals, "CAPTURE_FAILED", runErr.Error(), hintForCapture(runErr))
	}
	if closeErr != nil {
		return outputErrorCommon(globals, "OUTPUT_FAILED", closeErr.Error(), hintForCapture(closeErr))
	}

	globals.logger().Debug("capture finished",
		zap.Int("total", summary.Total),
		zap.Int("written", summary.Written),
		zap.Int("skipped_level", summary.SkippedLevel),
		zap.Int("skipped_pid", summary.SkippedPid),
		zap.Int("restarts", summary.Restarts),
	)
	if globals.JSON() && !globals.Quiet {
		summary.SchemaVersion = output.SchemaVersion
		return emitter.Summary(summary)
	}
	return nil
}

// validate rejects flag combinations that cannot work together
func (c *CaptureCmd) validate() error {
	hasInput := len(c.Input) > 0
	hasCommand := c.Command != ""
	logcatOnly := c.Dump || c.Tail > 0 || c.Last || len(c.Buffer) > 0

	switch {
	case c.Head < 0 || c.Tail < 0:
		return invalidFlags("--head and --tail must not be negative")
	case hasInput && hasCommand:
		return invalidFlags("--input and COMMAND are mutually exclusive")
	case logcatOnly && (hasInput || hasCommand):
		return invalidFlags("--buffer, --dump, --last and --tail only apply to adb logcat")
	case c.Restart && (c.Dump || c.Tail > 0 || hasInput):
		return invalidFlags("--restart cannot be combined with --dump, --tail or --input")
	case c.Restart && c.Head > 0:
		return invalidFlags("--restart and --head are mutually exclusive")
	case c.Head > 0 && c.Tail > 0:
		return invalidFlags("--head and --tail are mutually exclusive")
	case c.Output == "" && (c.Overwrite || c.RecordsPerFile != "" || c.FilenameFormat != ""):
		return invalidFlags("--overwrite, --records-per-file and --filename-format require --output")
	}
	return nil
}

// resolve merges flags with the selected profile and the config file.
// Flags win; profile packages are added to --package.
func (c *CaptureCmd) resolve(globals *Globals) (*captureSettings, error) {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}
	s := &captureSettings{
		Packages:       append([]string(nil), c.Package...),
		Buffers:        c.Buffer,
		FilenameFormat: c.FilenameFormat,
	}
	if len(s.Packages) == 0 {
		s.Packages = append(s.Packages, cfg.Packages...)
	}
	levelText := c.Level

	if c.Profile != "" {
		path := c.ProfilesPath
		if path == "" {
			path = cfg.ProfilesPath
		}
		profiles, err := config.LoadProfiles(config.ProfilesPath(path))
		if err != nil {
			return nil, &CLIError{Code: "PROFILE_ERROR", Message: err.Error()}
		}
		prof, err := profiles.Resolve(c.Profile)
		if err != nil {
			return nil, &CLIError{Code: "PROFILE_ERROR", Message: err.Error(), Hint: fmt.Sprintf("Profiles are read from %s", profiles.Path)}
		}
		globals.Debug("Profile %s: %+v", c.Profile, prof)
		for _, p := range prof.Packages {
			if !contains(s.Packages, p) {
				s.Packages = append(s.Packages, p)
			}
		}
		if levelText == "" {
			levelText = prof.Level
		}
		if len(s.Buffers) == 0 {
			s.Buffers = prof.Buffer
		}
	}

	if levelText == "" {
		levelText = cfg.Level
	}
	if levelText != "" {
		s.Level = domain.ParseLevel(levelText)
		if s.Level == domain.LevelNone {
			return nil, invalidFlags(fmt.Sprintf("invalid level %q", levelText))
		}
	}
	if len(s.Buffers) == 0 && len(c.Input) == 0 && c.Command == "" {
		s.Buffers = cfg.Buffer
	}

	if c.Output != "" {
		if s.FilenameFormat == "" {
			s.FilenameFormat = cfg.FilenameFormat
		}
		perFile := c.RecordsPerFile
		if perFile == "" {
			perFile = cfg.RecordsPerFile
		}
		n, err := output.ParseRecordsPerFile(perFile)
		if err != nil {
			return nil, invalidFlags(err.Error())
		}
		s.RecordsPerFile = n
	}
	return s, nil
}

// source picks where records come from and whether it restarts
func (c *CaptureCmd) source(globals *Globals, client *adb.Client, s *captureSettings) (capture.Source, bool, error) {
	switch {
	case len(c.Input) > 0:
		return capture.NewFileSource(c.Input...), false, nil
	case c.Command == "-":
		return capture.NewReaderSource(globals.Stdin, "stdin"), false, nil
	case c.Command != "":
		src, err := capture.NewCommandSource(c.Command, globals.logger())
		return src, c.Restart, err
	}

	opts := adb.LogcatOptions{
		Buffers: s.Buffers,
		Dump:    c.Dump,
		Last:    c.Last,
		Tail:    c.Tail,
	}
	restart := c.Restart
	if !c.Dump && !c.Last && c.Tail == 0 && globals.Config != nil && globals.Config.Restart {
		restart = true
	}
	return capture.NewAdbSource(client, opts, globals.logger()), restart, nil
}

// writer builds the output: a rotating file set or stdout
func (c *CaptureCmd) writer(globals *Globals, emitter *output.Emitter, s *captureSettings) (output.Writer, error) {
	opts := output.Options{
		HideTimestamp: c.HideTimestamp,
		ShowDate:      c.ShowDate,
		MessageOnly:   c.MessageOnly,
	}
	if c.Output == "" {
		return output.New(globals.Format, globals.Stdout, opts)
	}

	return output.NewRotation(output.RotationOptions{
		Path:           c.Output,
		Format:         globals.Format,
		Writer:         opts,
		Overwrite:      c.Overwrite,
		RecordsPerFile: s.RecordsPerFile,
		FilenameFormat: s.FilenameFormat,
		OnOpen: func(path string, index int) {
			if globals.Quiet {
				return
			}
			if globals.JSON() {
				_ = emitter.Rotation(path, index)
				return
			}
			fmt.Fprintf(globals.Stderr, "Writing %s\n", path)
		},
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
