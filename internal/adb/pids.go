package adb

import (
	"errors"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/vburojevic/rogcat/internal/domain"
)

// ResolvePids returns the PIDs of the running processes named by packages.
// It runs `adb shell pidof` once and blocks until it exits.
func (c *Client) ResolvePids(packages []string) (domain.PidSet, error) {
	if len(packages) == 0 {
		return domain.NewPidSet(), nil
	}

	path, err := c.Path()
	if err != nil {
		return nil, err
	}

	args := c.args(append([]string{"shell", "pidof"}, packages...)...)
	out, err := exec.Command(path, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &ToolError{Op: "pidof", Err: err}
		}
		// pidof exits 1 when nothing matches; only a signal loses the output
		if exitErr.ExitCode() < 0 {
			return nil, &ToolError{Op: "pidof", Err: err}
		}
		c.logger.Debug("pidof exited non-zero",
			zap.Int("code", exitErr.ExitCode()),
			zap.Strings("packages", packages))
	}

	return ParsePids(strings.ToValidUTF8(string(out), "\uFFFD")), nil
}

// ParsePids collects every whitespace separated uint32 in text
func ParsePids(text string) domain.PidSet {
	pids := domain.NewPidSet()
	for _, word := range strings.Fields(text) {
		if pid, ok := domain.ParsePid(word); ok {
			pids.Add(pid)
		}
	}
	return pids
}
