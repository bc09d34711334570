package theme

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"themegen/config"
	"themegen/csstemplate"
)

const (
	// ThemesFile lists comma separated query strings of release themes.
	ThemesFile = "build/themes"
	// BaseDir holds base stylesheets of the release.
	BaseDir = "themes/base"
	// ImagesDir is the images subdirectory of a theme.
	ImagesDir = "images"
)

// Reporter collects debug artifacts.
type Reporter interface {
	StoreData(name string, data []byte)
}

// NameValues are available to output name template.
type NameValues struct {
	Context string
	Version string
	Theme   string
	Dir     string
}

// Builder produces theme directories from a jQuery UI release.
type Builder struct {
	// Release is the root of jQuery UI release.
	Release fs.FS
	// Images holds pre-rendered theme images.
	Images   fs.FS
	Defaults csstemplate.Values
	Engine   *csstemplate.Engine
	Cfg      *config.BuildConfig
	// Report is optional.
	Report Reporter
	Log    *zap.Logger

	count int
}

// BuildAll builds every theme listed in release ThemesFile and returns paths
// of produced stylesheets.
func (b *Builder) BuildAll(ctx context.Context) ([]string, error) {
	data, err := fs.ReadFile(b.Release, ThemesFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read theme list: %w", err)
	}

	var results []string
	for qs := range strings.SplitSeq(string(data), ",") {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if len(strings.TrimSpace(qs)) == 0 {
			continue
		}
		out, err := b.BuildTheme(ctx, qs)
		if err != nil {
			return results, err
		}
		results = append(results, out)
	}
	return results, nil
}

// BuildTheme builds theme described by ThemeRoller query string and returns
// path of produced stylesheet.
func (b *Builder) BuildTheme(ctx context.Context, qs string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	qs = strings.TrimSpace(qs)

	name, vars, err := ParseQuery(qs)
	if err != nil {
		return "", err
	}
	log := b.log().With(zap.String("theme", name))

	dir := filepath.Join(b.Cfg.OutputDir, b.dirName(name))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("unable to create theme directory: %w", err)
	}

	data, images, err := PrepareTemplateData(vars)
	if err != nil {
		return "", fmt.Errorf("theme %q: %w", name, err)
	}
	if err := CopyImages(b.Images, filepath.Join(dir, ImagesDir), images, log); err != nil {
		return "", fmt.Errorf("theme %q: %w", name, err)
	}

	tmpl, err := fs.ReadFile(b.Release, BaseDir+"/"+ThemeFile)
	if err != nil {
		return "", fmt.Errorf("unable to read theme template: %w", err)
	}
	themeCSS, err := b.Engine.Render(tmpl, csstemplate.Defaults(data, b.Defaults), ThemeFile)
	if err != nil {
		return "", fmt.Errorf("theme %q: %w", name, err)
	}
	if u := b.Cfg.ThemeRollerURL; len(u) > 0 {
		themeCSS = strings.Replace(themeCSS, u, u+"?"+qs, 1)
	}

	base, err := fs.Sub(b.Release, BaseDir)
	if err != nil {
		return "", err
	}
	final, err := Assemble(base, themeCSS, AssembleOptions{
		Scope:           b.Cfg.Scope.Selector,
		Version:         b.Cfg.Version,
		AllowedPrefixes: b.Cfg.Scope.AllowedPrefixes,
	}, log)
	if err != nil {
		return "", fmt.Errorf("theme %q: %w", name, err)
	}

	out := filepath.Join(dir, b.outputName(name, filepath.Base(dir), log))
	if err := os.WriteFile(out, []byte(final), 0644); err != nil {
		return "", fmt.Errorf("unable to write stylesheet: %w", err)
	}

	b.count++
	if b.Report != nil {
		b.Report.StoreData(fmt.Sprintf("themes/%03d-%s", b.count, filepath.Base(out)), []byte(final))
	}
	log.Info("Theme built", zap.String("file", out), zap.Int("images", len(images)), zap.String("size", humanize.Bytes(uint64(len(final)))))
	return out, nil
}

func (b *Builder) log() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}

func (b *Builder) dirName(name string) string {
	if b.Cfg.DirNameTransliterate {
		name = slug.Make(name)
	}
	return config.CleanFileName(name)
}

func (b *Builder) defaultName() string {
	return "jquery-ui-" + b.Cfg.Version + ".custom.css"
}

func (b *Builder) outputName(theme, dir string, log *zap.Logger) string {
	if len(b.Cfg.OutputNameTemplate) == 0 {
		return config.CleanFileName(b.defaultName())
	}
	name, err := expandTemplate(config.OutputNameTemplateFieldName, b.Cfg.OutputNameTemplate, NameValues{
		Context: string(config.OutputNameTemplateFieldName),
		Version: b.Cfg.Version,
		Theme:   theme,
		Dir:     dir,
	})
	if err != nil || len(strings.TrimSpace(name)) == 0 {
		log.Warn("Unable to expand output name template, using default", zap.Error(err))
		return config.CleanFileName(b.defaultName())
	}
	return config.CleanFileName(strings.TrimSpace(name))
}

func expandTemplate(name config.TemplateFieldName, field string, values NameValues) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
