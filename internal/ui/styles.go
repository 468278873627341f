package ui

import (
	"fmt"

	"github.com/groblegark/deskboard/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorCmd    = 250 // light gray
	colorMuted  = 245 // medium gray
	colorGreen  = 114 // board "ready" state
	colorRed    = 203 // board "unavailable" state
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorCmd, s)
}

// RenderStatus returns the status word colored to match the board: green,
// red, or muted gray for neutral.
func RenderStatus(s model.Status) string {
	if noColor {
		return string(s)
	}
	switch s {
	case model.StatusGreen:
		return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorGreen, s)
	case model.StatusRed:
		return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorRed, s)
	default:
		return RenderMuted(string(s))
	}
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
