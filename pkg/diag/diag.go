// Package diag provides user-facing error messages with remediation hints.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// HintedString is an error message plus zero or more hints on how to fix it.
type HintedString struct {
	Message string
	Hints   []string
}

// New creates a hinted message.
func New(message string, hints ...string) *HintedString {
	return &HintedString{Message: message, Hints: hints}
}

// Errorf creates a hinted message from a format string.
func Errorf(format string, args ...any) *HintedString {
	return &HintedString{Message: fmt.Sprintf(format, args...)}
}

// Hint appends a hint and returns h for chaining.
func (h *HintedString) Hint(hint string) *HintedString {
	h.Hints = append(h.Hints, hint)

	return h
}

// Error returns the message without hints.
func (h *HintedString) Error() string {
	return h.Message
}

// Render writes the message followed by one line per hint:
//
//	error: path must not contain a backslash
//	  = hint: use forward slashes instead: `"a/b"`
func (h *HintedString) Render(w io.Writer, colored bool) error {
	errLabel := color.New(color.FgRed, color.Bold)
	hintLabel := color.New(color.FgCyan, color.Bold)

	if colored {
		errLabel.EnableColor()
		hintLabel.EnableColor()
	} else {
		errLabel.DisableColor()
		hintLabel.DisableColor()
	}

	_, err := fmt.Fprintf(w, "%s %s\n", errLabel.Sprint("error:"), h.Message)
	if err != nil {
		return fmt.Errorf("render diagnostic: %w", err)
	}

	for _, hint := range h.Hints {
		_, err = fmt.Fprintf(w, "  %s %s\n", hintLabel.Sprint("= hint:"), hint)
		if err != nil {
			return fmt.Errorf("render diagnostic: %w", err)
		}
	}

	return nil
}
