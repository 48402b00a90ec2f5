package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vburojevic/rogcat/internal/adb"
	"github.com/vburojevic/rogcat/internal/output"
)

// ClearCmd clears logd buffers on the device
type ClearCmd struct {
	Buffer []string `short:"b" help:"Buffers to clear (default: main, events, kernel, crash; can be repeated)"`
}

// Run executes the clear command
func (c *ClearCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	buffers := c.Buffer
	if len(buffers) == 0 && globals.Config != nil {
		buffers = globals.Config.Buffer
	}
	if len(buffers) == 0 {
		buffers = adb.DefaultBuffers
	}

	if err := globals.Client().Clear(ctx, buffers); err != nil {
		return outputErrorCommon(globals, "CLEAR_FAILED", err.Error(), hintForTooling(err))
	}

	msg := fmt.Sprintf("Cleared %s", strings.Join(buffers, ", "))
	if globals.JSON() {
		return output.NewEmitter(globals.Stdout).Info(msg, globals.Serial)
	}
	if !globals.Quiet {
		fmt.Fprintln(globals.Stdout, msg)
	}
	return nil
}
