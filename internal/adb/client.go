package adb

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// ErrToolNotFound is wrapped by ToolError when adb cannot be located
var ErrToolNotFound = errors.New("adb executable not found")

// ToolError reports a failure to locate, start or read from adb
type ToolError struct {
	Op  string
	Err error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("adb %s: %v", e.Op, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Lookup finds adb on the PATH of the current process environment
func Lookup() (string, error) {
	return lookup("adb")
}

func lookup(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &ToolError{Op: "lookup", Err: fmt.Errorf("%w: %v", ErrToolNotFound, err)}
	}
	return path, nil
}

// Client runs adb commands against one device selector
type Client struct {
	override string
	serial   string
	logger   *zap.Logger

	mu   sync.Mutex
	path string
}

// Option configures a Client
type Option func(*Client)

// WithPath uses an explicit adb executable instead of searching PATH
func WithPath(path string) Option {
	return func(c *Client) { c.override = path }
}

// WithSerial forwards a device selector as `adb -s <serial>`
func WithSerial(serial string) Option {
	return func(c *Client) { c.serial = serial }
}

// WithLogger sets the diagnostics logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new adb client
func NewClient(opts ...Option) *Client {
	c := &Client{logger: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Serial returns the device selector, empty when adb picks the device
func (c *Client) Serial() string {
	return c.serial
}

// Path returns the adb executable, resolving it on first use.
// A failed lookup is retried on the next call.
func (c *Client) Path() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path != "" {
		return c.path, nil
	}
	name := "adb"
	if c.override != "" {
		name = c.override
	}
	path, err := lookup(name)
	if err != nil {
		return "", err
	}
	c.logger.Debug("resolved adb", zap.String("path", path))
	c.path = path
	return path, nil
}

// args prefixes the device selector
func (c *Client) args(sub ...string) []string {
	if c.serial == "" {
		return sub
	}
	return append([]string{"-s", c.serial}, sub...)
}

// Command builds an adb command for the client's device without starting it
func (c *Client) Command(ctx context.Context, sub ...string) (*exec.Cmd, error) {
	path, err := c.Path()
	if err != nil {
		return nil, err
	}
	args := c.args(sub...)
	c.logger.Debug("adb command", zap.Strings("args", args))
	return exec.CommandContext(ctx, path, args...), nil
}
