package theme

import "errors"

var (
	// ErrMissingParameter is returned when theme query string or theme
	// variables lack a required entry.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrUnknownTexture is returned for background textures without known
	// image dimensions.
	ErrUnknownTexture = errors.New("unknown texture")
	// ErrNotImage is returned when file to be copied into theme images is
	// not recognized as an image.
	ErrNotImage = errors.New("not an image")
)
