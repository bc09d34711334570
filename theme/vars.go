// Package theme builds jQuery UI themes: ThemeRoller query strings, template
// data, stylesheet assembly and theme directories.
package theme

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"themegen/csstemplate"
)

// Vars holds theme variables as carried by the ThemeRoller query string.
type Vars map[string]string

// Keys returns variable names in natural order.
func (v Vars) Keys() []string {
	keys := slices.Collect(maps.Keys(v))
	sort.Sort(natural.StringSlice(keys))
	return keys
}

// Values returns variables as template values.
func (v Vars) Values() csstemplate.Values {
	values := make(csstemplate.Values, len(v))
	for k, s := range v {
		values[k] = s
	}
	return values
}

// VarsFromValues converts decoded values (numbers included) to theme
// variables.
func VarsFromValues(values csstemplate.Values) (Vars, error) {
	vars := make(Vars, len(values))
	for k, val := range values {
		if val == nil {
			continue
		}
		s, err := csstemplate.Text(val)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", k, err)
		}
		vars[k] = s
	}
	return vars, nil
}

const (
	nameParam  = "t-name"
	themeParam = "theme"
)

// download parameters ThemeRoller puts in front of the theme.
var downloadParams = url.Values{
	"download": {"true"},
	"files[]": {
		"ui.core.js", "ui.widget.js", "ui.mouse.js", "ui.position.js",
		"ui.draggable.js", "ui.droppable.js", "ui.resizable.js", "ui.selectable.js",
		"ui.sortable.js", "ui.accordion.js", "ui.autocomplete.js", "ui.button.js",
		"ui.dialog.js", "ui.slider.js", "ui.tabs.js", "ui.datepicker.js",
		"ui.progressbar.js", "effects.core.js", "effects.blind.js", "effects.bounce.js",
		"effects.clip.js", "effects.drop.js", "effects.explode.js", "effects.fold.js",
		"effects.highlight.js", "effects.pulsate.js", "effects.scale.js", "effects.shake.js",
		"effects.slide.js", "effects.transfer.js",
	},
	"scope":      {""},
	"ui-version": {"1.8.2"},
}

// ParseQuery extracts theme name and variables from ThemeRoller query
// string. Variables are carried by "theme" parameter as a nested query
// string starting with '?'.
func ParseQuery(qs string) (string, Vars, error) {
	params, err := url.ParseQuery(strings.TrimSpace(qs))
	if err != nil {
		return "", nil, fmt.Errorf("unable to parse query string: %w", err)
	}
	if !params.Has(nameParam) {
		return "", nil, fmt.Errorf("%w: could not find %q in query string", ErrMissingParameter, nameParam)
	}
	if !params.Has(themeParam) {
		return "", nil, fmt.Errorf("%w: could not find %q in query string", ErrMissingParameter, themeParam)
	}

	nested, err := url.ParseQuery(strings.TrimPrefix(params.Get(themeParam), "?"))
	if err != nil {
		return "", nil, fmt.Errorf("unable to parse theme parameters: %w", err)
	}
	vars := make(Vars, len(nested))
	for k, v := range nested {
		vars[k] = v[0]
	}
	return params.Get(nameParam), vars, nil
}

// EncodeQuery produces ThemeRoller query string for named theme. Hex colors
// lose their leading '#'.
func EncodeQuery(name string, vars Vars) string {
	theme := make(url.Values, len(vars))
	for k, v := range vars {
		if isHashColor(v) {
			v = v[1:]
		}
		theme.Set(k, v)
	}

	params := maps.Clone(downloadParams)
	params.Set(nameParam, name)
	params.Set(themeParam, "?"+encode(theme))
	return encode(params)
}

// encode escapes spaces as %20 the way ThemeRoller does.
func encode(v url.Values) string {
	return strings.ReplaceAll(v.Encode(), "+", "%20")
}

func isHashColor(v string) bool {
	return len(v) == 7 && v[0] == '#' && isHex(v[1:])
}

func isColor(v string) bool {
	return len(v) == 6 && isHex(v)
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
