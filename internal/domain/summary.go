package domain

// CaptureSummary is emitted when a capture ends
type CaptureSummary struct {
	Type          string `json:"type"` // Always "summary"
	SchemaVersion int    `json:"schemaVersion"`
	Total         int    `json:"total"`
	Written       int    `json:"written"`
	SkippedLevel  int    `json:"skipped_level"`
	SkippedPid    int    `json:"skipped_pid"`
	Restarts      int    `json:"restarts"`
}

// NewCaptureSummary creates a new empty summary
func NewCaptureSummary() *CaptureSummary {
	return &CaptureSummary{Type: "summary"}
}

// ErrorOutput represents a structured error for NDJSON output
type ErrorOutput struct {
	Type          string `json:"type"`          // Always "error"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	Code          string `json:"code"`          // Machine-readable error code
	Message       string `json:"message"`       // Human-readable message
	Hint          string `json:"hint,omitempty"`
}

// NewErrorOutput creates a new error output
// Note: SchemaVersion should be set by the caller (output package)
func NewErrorOutput(code, message string) *ErrorOutput {
	return &ErrorOutput{
		Type:    "error",
		Code:    code,
		Message: message,
	}
}
