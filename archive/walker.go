// Package archive opens jQuery UI releases and image sets stored either as
// directories or as zip archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

// ErrUnsupported is returned for sources which are neither directories nor
// zip archives.
var ErrUnsupported = errors.New("unsupported source")

// FS is a read-only file system backed by a directory or a zip archive. It
// must be closed when no longer needed.
type FS struct {
	fs.FS
	closer io.Closer
	// Root is archive directory FS is rooted at, empty for directories and
	// archives without single top level directory.
	Root string
}

// Close releases underlying archive.
func (a *FS) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Open returns file system for directory or zip archive name. When all
// archive entries share single top level directory the file system is
// rooted there. Archives with unsafe entry paths (absolute or with ".."
// components) are rejected.
func Open(name string) (*FS, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &FS{FS: os.DirFS(name)}, nil
	}
	if !strings.EqualFold(path.Ext(name), ".zip") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}

	r, err := zip.OpenReader(name)
	if err != nil {
		if r != nil {
			r.Close()
		}
		return nil, err
	}
	root, err := commonRoot(r.File)
	if err != nil {
		r.Close()
		return nil, err
	}
	if len(root) == 0 {
		return &FS{FS: r, closer: r}, nil
	}
	sub, err := fs.Sub(r, root)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &FS{FS: sub, closer: r, Root: root}, nil
}

// commonRoot checks entry names and returns top level directory shared by
// all of them, if any.
func commonRoot(files []*zip.File) (string, error) {
	var root string
	shared := len(files) > 0
	for _, f := range files {
		name := f.Name
		if !isSafePath(name) {
			return "", fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !shared {
			continue
		}
		top, _, found := strings.Cut(name, "/")
		switch {
		case !found:
			shared = false
		case len(root) == 0:
			root = top
		case root != top:
			shared = false
		}
	}
	if !shared {
		return "", nil
	}
	return root, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
