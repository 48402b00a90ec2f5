package cli

import (
	"fmt"

	"github.com/vburojevic/rogcat/internal/output"
)

// emitWarning respects format/quiet.
func emitWarning(globals *Globals, emitter *output.Emitter, msg string) {
	if globals.Quiet {
		return
	}
	if globals.JSON() && emitter != nil {
		_ = emitter.Warning(msg)
		return
	}
	fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
}

// emitInfo respects format/quiet.
func emitInfo(globals *Globals, emitter *output.Emitter, msg string) {
	if globals.Quiet {
		return
	}
	if globals.JSON() && emitter != nil {
		_ = emitter.Info(msg, globals.Serial)
		return
	}
	fmt.Fprintln(globals.Stderr, msg)
}
