// Package logger gates pipeline diagnostics behind the --verbose flag.
// Lines go through a std log.Logger with the same flags main sets on the
// default logger, so each one carries a timestamp and its call site.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

var (
	verbose atomic.Bool
	std     = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)
)

// SetVerbose enables or disables diagnostics.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose reports whether diagnostics are enabled.
func IsVerbose() bool {
	return verbose.Load()
}

// SetOutput redirects diagnostics, os.Stderr by default.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// output writes one line attributed to the caller of the exported function.
func output(level, format string, args ...any) {
	if !verbose.Load() {
		return
	}
	_ = std.Output(3, "["+level+"] "+fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) {
	output("DEBUG", format, args...)
}

func Info(format string, args ...any) {
	output("INFO", format, args...)
}

func Warn(format string, args ...any) {
	output("WARN", format, args...)
}

// Section marks the start of a pipeline stage.
func Section(name string) {
	if verbose.Load() {
		_ = std.Output(2, "=== "+name+" ===")
	}
}
