package config

import (
	"os"
	"strings"
)

const badFileName = "_bad_file_name_"

// CleanFileName turns theme name into something usable as a single path
// element: characters reserved by the platform are dropped, so are leading
// dots on systems where they hide files.
func CleanFileName(in string) string {
	reserved := reservedChars + string(os.PathSeparator) + string(os.PathListSeparator)
	out := strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(reserved, sym) {
			return -1
		}
		return sym
	}, in)
	if hideDotFiles {
		out = strings.TrimLeft(out, ".")
	}
	if len(out) == 0 {
		return badFileName
	}
	return out
}
