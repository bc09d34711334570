package theme

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"themegen/csstemplate"
)

type size struct{ w, h int }

// background texture image dimensions
var textures = map[string]size{
	"diagonal-maze":    {10, 10},
	"diagonals-small":  {40, 40},
	"diagonals-medium": {40, 40},
	"diagonals-thick":  {40, 40},
	"diamond":          {10, 8},
	"dots-medium":      {4, 4},
	"dots-small":       {2, 2},
	"fine-grain":       {60, 60},
	"flat":             {40, 100},
	"glass":            {1, 400},
	"gloss-wave":       {500, 100},
	"highlight-hard":   {1, 100},
	"highlight-soft":   {1, 100},
	"inset-hard":       {1, 100},
	"inset-soft":       {1, 100},
	"loop":             {21, 21},
	"white-lines":      {40, 100},
}

var reTexture = regexp.MustCompile(`^[0-9]+_([^.]+)\.png$`)

// PrepareTemplateData derives template values from theme variables and
// returns them with the sorted names of images they reference:
//
//   - a variable with a "<name>Unit" companion gets the unit appended;
//   - "iconColor<X>" becomes "icons<X>", the icon sprite url;
//   - "<x>Texture<y>" becomes "<x>ImgUrl<y>", the background image url built
//     from the texture, "<x>ImgOpacity<y>" and "<x>Color<y>";
//   - six hex digits get '#' prepended;
//   - everything else is used verbatim.
func PrepareTemplateData(vars Vars) (csstemplate.Values, []string, error) {
	data := make(csstemplate.Values, len(vars))
	images := make(map[string]struct{})

	for _, k := range vars.Keys() {
		v := vars[k]

		if unit, ok := vars[k+"Unit"]; ok {
			data[k] = v + unit
			continue
		}
		if suffix, ok := strings.CutPrefix(k, "iconColor"); ok {
			data["icons"+suffix] = imageURL(iconImage(v), images)
			continue
		}
		if strings.Contains(k, "Texture") {
			name, err := bgImage(v, vars, k)
			if err != nil {
				return nil, nil, fmt.Errorf("variable %q: %w", k, err)
			}
			data[strings.Replace(k, "Texture", "ImgUrl", 1)] = imageURL(name, images)
			continue
		}
		if isColor(v) {
			data[k] = "#" + v
			continue
		}
		data[k] = v
	}
	return data, slices.Sorted(maps.Keys(images)), nil
}

func imageURL(name string, images map[string]struct{}) string {
	images[name] = struct{}{}
	return "url(images/" + name + ")"
}

func iconImage(color string) string {
	return "ui-icons_" + strings.ToLower(color) + "_256x240.png"
}

func bgImage(texture string, vars Vars, key string) (string, error) {
	m := reTexture.FindStringSubmatch(texture)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTexture, texture)
	}
	name := strings.Replace(m[1], "_", "-", 1)
	sz, ok := textures[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTexture, name)
	}

	opacityKey := strings.Replace(key, "Texture", "ImgOpacity", 1)
	opacity, ok := vars[opacityKey]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingParameter, opacityKey)
	}
	colorKey := strings.Replace(key, "Texture", "Color", 1)
	color, ok := vars[colorKey]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingParameter, colorKey)
	}
	return fmt.Sprintf("ui-bg_%s_%s_%s_%dx%d.png", name, opacity, strings.ToLower(color), sz.w, sz.h), nil
}
