// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// set by linker
var (
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns name of the running executable without extension.
func GetAppName() string {
	if len(os.Args) == 0 {
		return "themegen"
	}
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git commit program was built from.
func GetGitHash() string {
	return gitHash
}
