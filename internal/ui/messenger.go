// Package ui formats console output for the paperstack commands:
// status messages in four severities and tabular record listings.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Messenger reports command outcomes to the person at the terminal.
// The store and scrapers never print; they fail with typed errors and
// the command layer routes them through a Messenger.
type Messenger interface {
	Neutral(format string, args ...any)
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

// Console is the standard Messenger: neutral and success messages on
// one stream, warnings and errors on another.
type Console struct {
	out     io.Writer
	errOut  io.Writer
	success *color.Color
	warning *color.Color
	failure *color.Color
}

// NewConsole returns a Console writing to the given streams. With
// colors false every severity renders as plain text.
func NewConsole(out, errOut io.Writer, colors bool) *Console {
	success := color.New(color.FgGreen)
	warning := color.New(color.FgYellow)
	failure := color.New(color.FgRed, color.Bold)
	if !colors {
		success.DisableColor()
		warning.DisableColor()
		failure.DisableColor()
	}
	return &Console{
		out:     out,
		errOut:  errOut,
		success: success,
		warning: warning,
		failure: failure,
	}
}

// Neutral prints an unstyled informational line.
func (c *Console) Neutral(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Success prints a green confirmation line.
func (c *Console) Success(format string, args ...any) {
	c.success.Fprintf(c.out, format+"\n", args...)
}

// Warning prints a yellow warning: line on the error stream.
func (c *Console) Warning(format string, args ...any) {
	c.warning.Fprintf(c.errOut, "warning: "+format+"\n", args...)
}

// Error prints a red error: line on the error stream.
func (c *Console) Error(format string, args ...any) {
	c.failure.Fprintf(c.errOut, "error: "+format+"\n", args...)
}
