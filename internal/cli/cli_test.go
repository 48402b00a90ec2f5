package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vburojevic/rogcat/internal/config"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format: format,
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  strings.NewReader(""),
		Config: config.Default(),
		Logger: zap.NewNop(),
	}, stdout, stderr
}

// stubAdbScript answers the adb subcommands rogcat uses
const stubAdbScript = `
if [ "$1" = "-s" ]; then shift 2; fi
case "$1" in
  logcat)
    if [ "$2" = "-c" ]; then exit 0; fi
    cat <<'LOGS'
01-02 10:00:00.000   100   100 I Boot: starting
01-02 10:00:00.100   200   201 D App: hello from app
01-02 10:00:00.200   200   202 V App: verbose detail
01-02 10:00:00.300   300   300 E Other: unrelated failure
01-02 10:00:00.400   200   201 E App: app failure
LOGS
    ;;
  shell)
    if [ "$2" = "pidof" ]; then echo "200"; fi
    ;;
  devices)
    echo "List of devices attached"
    echo "emulator-5554          device product:sdk_gphone64 model:Pixel_7 device:emu64 transport_id:1"
    echo "0123456789ABCDEF       unauthorized transport_id:2"
    ;;
  bugreport)
    echo "== dumpstate: 2025-01-02 10:00:00"
    echo "Build: stub"
    ;;
  version)
    echo "Android Debug Bridge version 1.0.41"
    ;;
  *)
    echo "stub: unsupported adb args: $*" >&2
    exit 1
    ;;
esac
`

// sampleLogcat is what the stub prints for logcat, for stdin-based tests
const sampleLogcat = `01-02 10:00:00.000   100   100 I Boot: starting
01-02 10:00:00.100   200   201 D App: hello from app
01-02 10:00:00.200   200   202 V App: verbose detail
01-02 10:00:00.300   300   300 E Other: unrelated failure
01-02 10:00:00.400   200   201 E App: app failure
`

// stubAdb installs an adb script ahead of PATH and returns the file its
// arguments are appended to
func stubAdb(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.log")
	script := "#!/bin/sh\necho \"$@\" >> " + argsFile + "\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "adb"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return argsFile
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var objs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &v), line)
		objs = append(objs, v)
	}
	return objs
}

// --- Version Command Tests ---

func TestVersionCmd_Run(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		globals, stdout, _ := testGlobals("human")
		require.NoError(t, (&VersionCmd{}).Run(globals))
		assert.Equal(t, "rogcat version dev (none)\n", stdout.String())
	})

	t.Run("json", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")
		require.NoError(t, (&VersionCmd{}).Run(globals))
		objs := decodeLines(t, stdout.String())
		require.Len(t, objs, 1)
		assert.Equal(t, "version", objs[0]["type"])
		assert.Equal(t, "dev", objs[0]["version"])
	})
}

// --- Config Command Tests ---

func TestConfigShowCmd_Run(t *testing.T) {
	t.Run("outputs config in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("human")
		globals.Config.Packages = []string{"com.example.app"}

		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "Current Configuration:")
		assert.Contains(t, out, "format:           (auto)")
		assert.Contains(t, out, "packages:         com.example.app")
		assert.Contains(t, out, "restart:          true")
	})

	t.Run("outputs config in json format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("json")

		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		objs := decodeLines(t, stdout.String())
		require.Len(t, objs, 1)
		assert.Equal(t, "config", objs[0]["type"])
		assert.Equal(t, true, objs[0]["restart"])
		assert.Contains(t, objs[0], "filename_format")
	})
}

func TestConfigPathCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("human")
	t.Setenv("ROGCAT_PROFILES", "/tmp/rogcat-profiles.toml")

	require.NoError(t, (&ConfigPathCmd{}).Run(globals))

	out := stdout.String()
	assert.True(t, strings.Contains(out, "Config file:") || strings.Contains(out, "No configuration file found"))
	assert.Contains(t, out, "Profiles file: /tmp/rogcat-profiles.toml")
}

func TestConfigGenerateCmd_Run(t *testing.T) {
	t.Run("config parses", func(t *testing.T) {
		globals, stdout, _ := testGlobals("human")
		require.NoError(t, (&ConfigGenerateCmd{}).Run(globals))

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, stdout.Bytes(), 0o644))
		cfg, err := config.LoadFromFile(path)
		require.NoError(t, err)
		assert.True(t, cfg.Restart)
		assert.Equal(t, "single", cfg.FilenameFormat)
	})

	t.Run("profiles parse and resolve", func(t *testing.T) {
		globals, stdout, _ := testGlobals("human")
		require.NoError(t, (&ConfigGenerateCmd{Profiles: true}).Run(globals))

		path := filepath.Join(t.TempDir(), "profiles.toml")
		require.NoError(t, os.WriteFile(path, stdout.Bytes(), 0o644))
		profiles, err := config.LoadProfiles(path)
		require.NoError(t, err)

		prof, err := profiles.Resolve("app")
		require.NoError(t, err)
		assert.Equal(t, []string{"main", "crash"}, prof.Buffer)
		assert.Equal(t, "info", prof.Level)
	})
}

// --- Completions Command Tests ---

func TestCompletionsCmd_Run(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			globals, stdout, _ := testGlobals("human")
			require.NoError(t, (&CompletionsCmd{Shell: shell}).Run(globals))
			out := stdout.String()
			assert.Contains(t, out, "rogcat")
			assert.Contains(t, out, "records-per-file")
			assert.Contains(t, out, "bugreport")
		})
	}

	t.Run("every shell offers long capture flags", func(t *testing.T) {
		longFlags := []string{
			"restart", "buffer", "last", "dump", "tail", "input", "level", "package",
			"profile", "profiles-path", "head", "output", "overwrite", "records-per-file",
			"filename-format", "hide-timestamp", "show-date", "message-only", "metrics-file",
		}
		scripts := map[string]func(string) string{
			"bash": func(f string) string { return " --" + f + " " },
			"zsh":  func(f string) string { return "--" + f + "[" },
			"fish": func(f string) string { return " -l " + f + " " },
		}
		for shell, pattern := range scripts {
			globals, stdout, _ := testGlobals("human")
			require.NoError(t, (&CompletionsCmd{Shell: shell}).Run(globals))
			for _, f := range longFlags {
				assert.Contains(t, stdout.String(), pattern(f), "%s completion is missing --%s", shell, f)
			}
		}
	})

	t.Run("unknown shell", func(t *testing.T) {
		globals, _, _ := testGlobals("human")
		assert.Error(t, (&CompletionsCmd{Shell: "tcsh"}).Run(globals))
	})
}

// --- Error Output Tests ---

func TestOutputErrorCommon(t *testing.T) {
	t.Run("text goes to stderr with hint", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("human")
		err := outputErrorCommon(globals, "SOME_CODE", "it broke", "try again")

		var ce *CLIError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "SOME_CODE", ce.Code)
		assert.Equal(t, "try again", ce.Hint)
		assert.Empty(t, stdout.String())
		assert.Equal(t, "Error [SOME_CODE]: it broke\nHint: try again\n", stderr.String())
	})

	t.Run("json goes to stdout", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("json")
		_ = outputErrorCommon(globals, "SOME_CODE", "it broke")

		objs := decodeLines(t, stdout.String())
		require.Len(t, objs, 1)
		assert.Equal(t, "error", objs[0]["type"])
		assert.Equal(t, "SOME_CODE", objs[0]["code"])
		assert.Empty(t, stderr.String())
	})
}

func TestNewGlobalsWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Verbose = true

	g := NewGlobalsWithConfig(&CLI{Format: "json", Serial: "abc"}, cfg)
	assert.True(t, g.Verbose)
	assert.True(t, g.JSON())
	assert.Equal(t, "abc", g.Client().Serial())
	require.NotNil(t, g.Logger)
	assert.True(t, g.Logger.Core().Enabled(zap.DebugLevel))

	quiet := NewGlobalsWithConfig(&CLI{Quiet: true}, nil)
	assert.False(t, quiet.Logger.Core().Enabled(zap.ErrorLevel))
}

func TestGlobalsDebug(t *testing.T) {
	var stderr bytes.Buffer
	g := &Globals{Stderr: &stderr, Verbose: true}
	g.Debug("resolved %d packages", 2)
	assert.Contains(t, stderr.String(), "resolved 2 packages")

	stderr.Reset()
	g = &Globals{Stderr: &stderr}
	g.Debug("hidden")
	assert.Empty(t, stderr.String())
}
