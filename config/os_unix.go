//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

const (
	reservedChars = ""
	hideDotFiles  = true
)

// EnableColorOutput reports whether stream is a terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
