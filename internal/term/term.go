// Package term holds ANSI color state and terminal detection.
//
// Colors are package-level variables shared by logging and display.
// [Configure] sets them once during startup; when colors are disabled the
// variables are empty strings and concatenation is a no-op.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/camsort/internal/config"
)

// ANSI color codes. Empty when colors are disabled.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = "" // Reset sequence.
)

// Configure resolves the color mode and sets the package-level ANSI
// variables. Called from [logging.NewLogger].
func Configure(mode config.ColorMode) {
	if resolve(mode, os.Getenv) {
		Red = "\033[1;91m"
		Green = "\033[1;92m"
		Yellow = "\033[1;93m"
		Blue = "\033[1;94m"
		Cyan = "\033[1;96m"
		Magenta = "\033[1;95m"
		NC = "\033[0m"
		return
	}
	Red, Green, Yellow, Blue, Cyan, Magenta, NC = "", "", "", "", "", "", ""
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// Paint wraps s in color when colors are enabled.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + NC
}

// resolve decides whether to color output from the mode, TTY detection,
// NO_COLOR (https://no-color.org) and TERM=dumb.
func resolve(mode config.ColorMode, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return IsTerminal(os.Stdout) &&
			getenv("NO_COLOR") == "" &&
			strings.ToLower(getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
