// Package notify is the single user-facing notification surface. Every
// failure in the editing core funnels here as a short message with a
// severity tag.
package notify

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Severity tags a notification.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(severity Severity, message string)
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// Console prints notifications to the terminal, coloured by severity.
type Console struct{}

func (Console) Notify(severity Severity, message string) {
	switch severity {
	case Warning:
		yellow.Fprintf(os.Stderr, "⚠ %s\n", message)
	case Error:
		red.Fprintf(os.Stderr, "✗ %s\n", message)
	default:
		green.Fprintf(os.Stderr, "✓ %s\n", message)
	}
}

// Discard drops all notifications.
type Discard struct{}

func (Discard) Notify(Severity, string) {}

// Notifyf formats a message and sends it, tolerating a nil notifier.
func Notifyf(n Notifier, severity Severity, format string, a ...any) {
	if n == nil {
		return
	}
	n.Notify(severity, fmt.Sprintf(format, a...))
}
