package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/rogcat/internal/output"
)

// outputErrorCommon normalizes error emission across commands: an error
// object on stdout in json format, a line on stderr otherwise.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.JSON() {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
		for _, h := range hint {
			if h != "" {
				fmt.Fprintf(globals.Stderr, "Hint: %s\n", h)
			}
		}
	}
	return &CLIError{Code: code, Message: message, Hint: firstHint(hint)}
}

// outputCLIError emits a CLIError built by a helper
func outputCLIError(globals *Globals, err error) error {
	var ce *CLIError
	if errors.As(err, &ce) {
		return outputErrorCommon(globals, ce.Code, ce.Message, ce.Hint)
	}
	return outputErrorCommon(globals, "ERROR", err.Error())
}

func firstHint(hint []string) string {
	if len(hint) > 0 {
		return hint[0]
	}
	return ""
}
