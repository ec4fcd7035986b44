// Package ui carries this repository's ambient logging and user-facing
// output formatting, grounded in the teacher's own split between a
// structured hclog.Logger for diagnostics (_examples/vercel-turborepo/cli/internal/process/child.go)
// and a pseudo-shell-variable Sprintf for colored terminal messages
// (_examples/vercel-turborepo/cli/internal/util/printf.go).
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
)

// IsTTY reports whether stderr is attached to a terminal; color
// replacements are dropped when it isn't.
var IsTTY = isatty.IsTerminal(os.Stderr.Fd())

// NewLogger builds the leveled logger used across the export pipeline.
func NewLogger(name string, debug bool) hclog.Logger {
	level := hclog.Info
	if debug {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     os.Stderr,
		Color:      hclog.AutoColor,
		JSONFormat: false,
	})
}

var replacements = map[string]string{
	"BOLD":      "\x1b[1m",
	"RED":       "\x1b[31m",
	"GREEN":     "\x1b[32m",
	"YELLOW":    "\x1b[33m",
	"CYAN":      "\x1b[36m",
	"UNDERLINE": "\x1b[4m",
	"RESET":     "\x1b[0m",
}

// Sprintf formats like fmt.Sprintf, then expands ${BOLD}/${RESET}-style
// pseudo-shell variables into ANSI codes, or drops them entirely when
// stderr isn't a TTY.
func Sprintf(format string, args ...interface{}) string {
	return os.Expand(fmt.Sprintf(format, args...), replace)
}

func replace(token string) string {
	if !IsTTY {
		return ""
	}
	return replacements[token]
}

// ErrorPrefix is prepended to fatal, user-facing error output.
func ErrorPrefix() string {
	return color.RedString("error:")
}
