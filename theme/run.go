package theme

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themegen/archive"
	"themegen/state"
)

// Run is "build" command action: builds every theme of a jQuery UI release.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	// command line takes precedence over configuration
	cfg := env.Cfg.Build
	if v := cmd.String("version"); len(v) > 0 {
		cfg.Version = v
	}
	if cmd.IsSet("scope") {
		cfg.Scope.Selector = cmd.String("scope")
	}
	if v := cmd.String("source"); len(v) > 0 {
		cfg.Source = v
	}
	if v := cmd.String("images"); len(v) > 0 {
		cfg.ImagesPath = v
	}
	if dst := cmd.Args().Get(0); len(dst) > 0 {
		cfg.OutputDir = dst
	}
	if len(cfg.Source) == 0 {
		return errors.New("no jQuery UI release specified")
	}
	if len(cfg.ImagesPath) == 0 {
		return errors.New("no theme images specified")
	}

	release, err := archive.Open(cfg.Source)
	if err != nil {
		return fmt.Errorf("unable to open release: %w", err)
	}
	defer func() {
		err = multierr.Append(err, release.Close())
	}()
	images, err := archive.Open(cfg.ImagesPath)
	if err != nil {
		return fmt.Errorf("unable to open theme images: %w", err)
	}
	defer func() {
		err = multierr.Append(err, images.Close())
	}()

	defaults, err := env.Defaults(cmd.String("defaults"))
	if err != nil {
		return err
	}

	env.Log.Info("Building themes", zap.String("release", cfg.Source), zap.String("version", cfg.Version), zap.String("destination", cfg.OutputDir))

	b := &Builder{
		Release:  release,
		Images:   images,
		Defaults: defaults,
		Engine:   env.Engine(),
		Cfg:      &cfg,
		Log:      env.Log,
	}
	if env.Rpt != nil {
		b.Report = env.Rpt
	}
	built, err := b.BuildAll(ctx)
	if err != nil {
		return err
	}
	env.Log.Info("Themes built", zap.Int("count", len(built)), zap.Duration("elapsed", env.Uptime()))
	return nil
}
