//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/term"
)

const (
	reservedChars = `<>":/\|?*`
	hideDotFiles  = false
)

// ENABLE_VIRTUAL_TERMINAL_PROCESSING
const vtProcessing uint32 = 0x4

// EnableColorOutput switches console attached to stream into VT100 mode.
// Consoles before Windows 10 cannot do that.
func EnableColorOutput(stream *os.File) bool {
	if majorVersion() < 10 || !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|vtProcessing) == nil
}

func majorVersion() uint64 {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return 0
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("CurrentMajorVersionNumber")
	if err != nil {
		return 0
	}
	return v
}
