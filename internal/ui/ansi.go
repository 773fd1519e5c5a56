package ui

import (
	"io"
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

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing overrides terminal detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when stdout is a terminal.
func C(color, s string) string {
	return colorFor(os.Stdout, color, s)
}

func colorFor(w io.Writer, color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY(w) {
		return color + s + reset
	}
	return s
}

// Printer writes user-facing lines. Results go to Out, problems to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// Stdio prints to the process streams.
func Stdio() Printer { return Printer{Out: os.Stdout, Err: os.Stderr} }

func (p Printer) OK(msg string) {
	io.WriteString(p.Out, colorFor(p.Out, Current().Success, symCheck+" "+msg)+"\n")
}

func (p Printer) Fail(msg string) {
	io.WriteString(p.Err, colorFor(p.Err, Current().Error, symCross+" "+msg)+"\n")
}

func (p Printer) Hint(msg string) {
	io.WriteString(p.Err, colorFor(p.Err, Current().Muted, msg)+"\n")
}
