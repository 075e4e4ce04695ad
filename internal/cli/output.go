package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"keypad-calculator/internal/calculator"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // evaluation produced "Error"
	ExitCommandError = 2 // bad flags, unknown keys, unreadable input
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose output; keeps JSON on Writer parseable
	Verbose   bool
}

// viewOutput is the JSON shape of a calculator view.
type viewOutput struct {
	Key        string `json:"key,omitempty"`
	Display    string `json:"display"`
	Expression string `json:"expression,omitempty"`
}

// View prints v. Text output puts the pending expression on its own line
// above the display, like the keypad's annotation row.
func (f *OutputFormatter) View(v calculator.View) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(viewOutput{Display: v.Display, Expression: v.Expression})
	}

	if v.Expression != "" {
		fmt.Fprintln(f.Writer, v.Expression)
	}
	_, err := fmt.Fprintln(f.Writer, v.Display)
	return err
}

// Step prints the view after one key when verbose output is enabled.
func (f *OutputFormatter) Step(key string, v calculator.View) {
	if !f.Verbose {
		return
	}

	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}

	if f.Format == "json" {
		json.NewEncoder(w).Encode(viewOutput{Key: key, Display: v.Display, Expression: v.Expression})
		return
	}
	fmt.Fprintf(w, "%-3s %s  %s\n", key, v.Display, v.Expression)
}

// Value prints a single result string.
func (f *OutputFormatter) Value(s string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(map[string]string{"result": s})
	}
	_, err := fmt.Fprintln(f.Writer, s)
	return err
}
