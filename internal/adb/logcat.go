package adb

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vburojevic/rogcat/internal/domain"
)

// DefaultBuffers are read when no -b flag is given
var DefaultBuffers = []string{"main", "events", "kernel", "crash"}

// LogcatOptions configures an `adb logcat` invocation
type LogcatOptions struct {
	Buffers []string // logd buffers, DefaultBuffers when empty
	Dump    bool     // -d: dump and exit
	Last    bool     // -L: logs prior to the last reboot
	Tail    int      // -t <n>: most recent n lines, implies dump
}

// LogcatArgs returns the adb arguments for a logcat run
func LogcatArgs(opts LogcatOptions) []string {
	args := []string{"logcat"}
	buffers := opts.Buffers
	if len(buffers) == 0 {
		buffers = DefaultBuffers
	}
	for _, b := range buffers {
		args = append(args, "-b", b)
	}
	if opts.Dump {
		args = append(args, "-d")
	}
	if opts.Last {
		args = append(args, "-L")
	}
	if opts.Tail > 0 {
		args = append(args, "-t", strconv.Itoa(opts.Tail))
	}
	return args
}

// Logcat builds the logcat command; the caller starts it
func (c *Client) Logcat(ctx context.Context, opts LogcatOptions) (*exec.Cmd, error) {
	return c.Command(ctx, LogcatArgs(opts)...)
}

// Clear clears the given logd buffers (DefaultBuffers when empty)
func (c *Client) Clear(ctx context.Context, buffers []string) error {
	if len(buffers) == 0 {
		buffers = DefaultBuffers
	}
	args := []string{"logcat", "-c"}
	for _, b := range buffers {
		args = append(args, "-b", b)
	}
	return c.run(ctx, "clear", args...)
}

// Log writes a message to the device log with `log -p <level> -t <tag>`
func (c *Client) Log(ctx context.Context, tag string, level domain.Level, message string) error {
	if level == domain.LevelNone {
		level = domain.LevelDebug
	}
	if tag == "" {
		tag = "rogcat"
	}
	// adb shell joins arguments with spaces before the device shell parses them
	return c.run(ctx, "log",
		"shell", "log",
		"-p", strings.ToLower(level.Letter()),
		"-t", shellQuote(tag),
		shellQuote(message))
}

// Bugreport streams `adb bugreport` output into w
func (c *Client) Bugreport(ctx context.Context, w io.Writer) error {
	cmd, err := c.Command(ctx, "bugreport")
	if err != nil {
		return err
	}
	cmd.Stdout = w
	if err := cmd.Run(); err != nil {
		return &ToolError{Op: "bugreport", Err: err}
	}
	return nil
}

func (c *Client) run(ctx context.Context, op string, sub ...string) error {
	cmd, err := c.Command(ctx, sub...)
	if err != nil {
		return err
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return &ToolError{Op: op, Err: err}
		}
		return &ToolError{Op: op, Err: fmt.Errorf("%w: %s", err, msg)}
	}
	return nil
}

func execOutput(ctx context.Context, path string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, path, args...).Output()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
