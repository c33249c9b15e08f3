// Package output provides consistent CLI output formatting.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Writer provides formatted output for CLI commands.
type Writer struct {
	out     io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
}

// New creates a Writer without color.
func New(out io.Writer) *Writer {
	plain := lipgloss.NewStyle()
	return &Writer{out: out, success: plain, warning: plain, failure: plain, label: plain, dim: plain}
}

// NewColor creates a Writer that styles icons and labels.
func NewColor(out io.Writer) *Writer {
	w := New(out)
	w.success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	w.warning = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	w.failure = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	w.label = lipgloss.NewStyle().Bold(true)
	w.dim = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return w
}

// Status prints a message with an icon, or indented when icon is empty.
// Write errors are ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Status(w.success.Render("✓"), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status(w.warning.Render("!"), msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status(w.failure.Render("✗"), msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Heading prints a bold line.
func (w *Writer) Heading(msg string) {
	_, _ = fmt.Fprintln(w.out, w.label.Render(msg))
}

// Snippet prints text indented, limited to maxLines lines (0 = no limit).
func (w *Writer) Snippet(text string, maxLines int) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	truncated := maxLines > 0 && len(lines) > maxLines
	if truncated {
		lines = lines[:maxLines]
	}
	for _, line := range lines {
		_, _ = fmt.Fprintf(w.out, "    %s\n", w.dim.Render(line))
	}
	if truncated {
		_, _ = fmt.Fprintf(w.out, "    %s\n", w.dim.Render("..."))
	}
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// JSON writes v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
