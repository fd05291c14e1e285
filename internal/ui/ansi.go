package ui

import (
	"fmt"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in the given ANSI color when output supports it.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

// OK prints a success line; Fail prints an error line to stderr.
// Both draw their symbol from the current theme.
func OK(msg string)   { fmt.Println(okLine(msg)) }
func Fail(msg string) { fmt.Fprintln(os.Stderr, failLine(msg)) }

func okLine(msg string) string   { return C(fgGreen, Current().SymDone+" "+msg) }
func failLine(msg string) string { return C(fgRed, Current().SymFail+" "+msg) }

// Hint prints a muted follow-up suggestion to stderr.
func Hint(msg string) { fmt.Fprintln(os.Stderr, C(fgGray, msg)) }
