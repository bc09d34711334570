package theme

import (
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"themegen/css"
	"themegen/tree"
)

const (
	// CoreFile always opens assembled stylesheet.
	CoreFile = "jquery.ui.core.css"
	// ThemeFile is the theme template, its rendered content follows CoreFile.
	ThemeFile = "jquery.ui.theme.css"

	versionTag = "@VERSION"
)

// never included into assembled stylesheet
var excluded = []string{CoreFile, ThemeFile, "jquery.ui.all.css", "jquery.ui.base.css"}

// DefaultAllowedPrefixes lists selector heads scope may be inserted after.
var DefaultAllowedPrefixes = []string{"*", "html", "body"}

// AssembleOptions controls final stylesheet production.
type AssembleOptions struct {
	// Scope is selector inserted into every selector, empty means no scoping.
	Scope string
	// Version replaces every @VERSION in the result.
	Version string
	// AllowedPrefixes are simple selectors kept in front of Scope,
	// DefaultAllowedPrefixes when nil.
	AllowedPrefixes []string
}

// Files returns names of stylesheets which follow the theme in assembled
// result: regular files of fsys root in natural order, without core, theme
// and aggregate stylesheets.
func Files(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("unable to list base stylesheets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || slices.Contains(excluded, e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}

// Assemble concatenates core stylesheet, rendered theme and the rest of base
// stylesheets from fsys, scopes the result and replaces version tags.
func Assemble(fsys fs.FS, themeCSS string, opts AssembleOptions, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	rest, err := Files(fsys)
	if err != nil {
		return "", err
	}
	core, err := fs.ReadFile(fsys, CoreFile)
	if err != nil {
		return "", fmt.Errorf("unable to read core stylesheet: %w", err)
	}
	parts := []string{string(core), themeCSS}
	for _, name := range rest {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", fmt.Errorf("unable to read stylesheet: %w", err)
		}
		parts = append(parts, string(data))
	}
	out := strings.Join(parts, "\n\n")
	log.Debug("Stylesheets concatenated", zap.Strings("files", append([]string{CoreFile, ThemeFile}, rest...)))

	if len(opts.Scope) > 0 {
		if out, err = scope(out, opts, log); err != nil {
			return "", err
		}
	}
	return strings.ReplaceAll(out, versionTag, opts.Version), nil
}

func scope(text string, opts AssembleOptions, log *zap.Logger) (string, error) {
	root, err := css.NewParser(log).ParseString(text, "assembled stylesheet")
	if err != nil {
		return "", err
	}
	prefixes := opts.AllowedPrefixes
	if prefixes == nil {
		prefixes = DefaultAllowedPrefixes
	}
	c := tree.Wrap(root)
	n, err := css.ScopeSelectors(c, prefixes, css.Selector(opts.Scope))
	if err != nil {
		return "", fmt.Errorf("unable to scope stylesheet: %w", err)
	}
	log.Debug("Stylesheet scoped", zap.String("scope", opts.Scope), zap.Int("selectors", n))
	return c.Print(), nil
}
