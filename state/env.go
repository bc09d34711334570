// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"themegen/config"
	"themegen/csstemplate"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{start: time.Now()})
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// Engine returns template engine with configured substitution policies.
func (e *LocalEnv) Engine() *csstemplate.Engine {
	var policies csstemplate.Policies
	if e.Cfg != nil {
		policies = e.Cfg.Template.Policies
	}
	return csstemplate.New(policies, e.Log)
}

// Defaults loads default template values, path overrides configured one.
// No path means no defaults.
func (e *LocalEnv) Defaults(path string) (csstemplate.Values, error) {
	if len(path) == 0 && e.Cfg != nil {
		path = e.Cfg.Template.DefaultsPath
	}
	if len(path) == 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open defaults: %w", err)
	}
	defer f.Close()

	values, err := csstemplate.LoadValues(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load defaults from '%s': %w", path, err)
	}
	if e.Log != nil {
		e.Log.Debug("Template defaults loaded", zap.String("file", path), zap.Int("values", len(values)))
	}
	return values, nil
}
