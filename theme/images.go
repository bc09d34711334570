package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// CopyImages copies named images from src to dstDir, which is created when
// absent. Every file is checked to be an image, failures do not stop the
// copying and are returned together.
func CopyImages(src fs.FS, dstDir string, names []string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("unable to create images directory: %w", err)
	}

	var (
		errs  error
		total uint64
	)
	for _, name := range names {
		n, err := copyImage(src, dstDir, name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		total += uint64(n)
		log.Debug("Image copied", zap.String("name", name), zap.String("size", humanize.Bytes(uint64(n))))
	}
	log.Debug("Images copied", zap.String("dir", dstDir), zap.Int("count", len(names)-len(multierr.Errors(errs))), zap.String("size", humanize.Bytes(total)))
	return errs
}

func copyImage(src fs.FS, dstDir, name string) (int, error) {
	data, err := fs.ReadFile(src, name)
	if err != nil {
		return 0, fmt.Errorf("unable to read image: %w", err)
	}
	if !filetype.IsImage(data) {
		return 0, fmt.Errorf("%w: %s", ErrNotImage, name)
	}
	if err := os.WriteFile(filepath.Join(dstDir, name), data, 0644); err != nil {
		return 0, fmt.Errorf("unable to write image: %w", err)
	}
	return len(data), nil
}
