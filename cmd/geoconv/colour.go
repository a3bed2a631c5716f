package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// palette holds the escape sequences used by text output.
type palette struct {
	label string
	warn  string
	reset string
}

var (
	plain = palette{}
	ansi  = palette{
		label: "\033[1m\033[36m",
		warn:  "\033[33m",
		reset: "\033[0m",
	}
)

// terminalPalette colours output only when w is an interactive terminal.
func terminalPalette(w io.Writer) palette {
	f, ok := w.(*os.File)
	if !ok {
		return plain
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return ansi
	}
	return plain
}
