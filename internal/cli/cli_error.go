package cli

// CLIError carries the code and hint a command failed with, so callers
// and tests can inspect failures without parsing output.
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidFlags(message string) *CLIError {
	return &CLIError{Code: "INVALID_FLAGS", Message: message}
}
