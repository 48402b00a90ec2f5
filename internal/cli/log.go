package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/vburojevic/rogcat/internal/domain"
	"github.com/vburojevic/rogcat/internal/output"
)

// LogCmd writes messages to the device log
type LogCmd struct {
	Message string `arg:"" optional:"" help:"Message to log; - or no message reads lines from stdin"`
	Tag     string `short:"t" default:"rogcat" help:"Log tag"`
	Level   string `short:"l" default:"debug" help:"Log level: trace, debug, info, warn, error, fatal, assert (or T D I W E F A)"`
}

// Run executes the log command
func (c *LogCmd) Run(globals *Globals) error {
	level := domain.ParseLevel(c.Level)
	if level == domain.LevelNone {
		return outputErrorCommon(globals, "INVALID_FLAGS", fmt.Sprintf("invalid level %q", c.Level))
	}

	messages := []string{c.Message}
	if c.Message == "" || c.Message == "-" {
		if readerIsTerminal(globals.Stdin) {
			return outputErrorCommon(globals, "INVALID_INPUT", "refusing to read messages from a terminal",
				"Pass the message as an argument or pipe lines into `rogcat log -`")
		}
		var err error
		messages, err = readLines(globals.Stdin)
		if err != nil {
			return outputErrorCommon(globals, "INVALID_INPUT", err.Error())
		}
	}

	client := globals.Client()
	for _, msg := range messages {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := client.Log(ctx, c.Tag, level, msg)
		cancel()
		if err != nil {
			return outputErrorCommon(globals, "LOG_FAILED", err.Error(), hintForTooling(err))
		}
	}

	globals.Debug("Logged %d message(s) with tag %s", len(messages), c.Tag)
	if globals.JSON() && !globals.Quiet {
		return output.NewEmitter(globals.Stdout).Info(fmt.Sprintf("Logged %d message(s)", len(messages)), globals.Serial)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// readerIsTerminal reports whether r is an interactive terminal
func readerIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
