package types

// Category groups commands in listings.
type Category string

const (
	CategoryLogging    Category = "logging"
	CategoryWindow     Category = "window"
	CategoryFilesystem Category = "filesystem"
	CategoryHTTP       Category = "http"
	CategorySystem     Category = "system"
	CategoryProcess    Category = "process"
	CategoryUpdater    Category = "updater"
)

// CommandDef describes a command the UI can invoke.
type CommandDef struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Parameters  []Parameter `json:"parameters"`
}

// Parameter represents a command argument
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Result represents a command execution result
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}

// Success wraps data in a successful result.
func Success(data map[string]interface{}) *Result {
	return &Result{Success: true, Data: data}
}

// Failure builds a failed result carrying a user-facing message.
func Failure(message string) *Result {
	return &Result{Success: false, Error: &message}
}
