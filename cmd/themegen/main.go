package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themegen/config"
	"themegen/misc"
	"themegen/state"
	"themegen/theme"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			// we do not want any of your secrets!
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt.
	// NOTE: normally in cli tool this is not necessary, but just in case we
	// may decide to do some heavy async processing later let's follow the
	// rules
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "jQuery UI theme generator: CSS templates, scoping and theme builds",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders CSS template with values (JSON or YAML) read from STDIN",
				OnUsageError: usageErrorHandler,
				Action:       renderTemplate,
				ArgsUsage:    "TEMPLATE [DEFAULTS]",
				CustomHelpTemplate: fmt.Sprintf(`%s
TEMPLATE:
    CSS file with placeholders: /*{NAME}*/ placed after property value, just before the semicolon

DEFAULTS:
    JSON or YAML file with values for placeholders not provided on STDIN,
    if absent - template.defaults_path from configuration

Rendered stylesheet is written to STDOUT.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "tags",
				Usage:        "Lists placeholders of CSS template",
				OnUsageError: usageErrorHandler,
				Action:       listTags,
				ArgsUsage:    "TEMPLATE",
			},
			{
				Name:         "scope",
				Usage:        "Inserts scope selector into every selector of a stylesheet",
				OnUsageError: usageErrorHandler,
				Action:       scopeStylesheet,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "selector", Aliases: []string{"s"}, Required: true, Usage: "scope `SELECTOR` (.class, #id or element)"},
					&cli.StringSliceFlag{Name: "prefix", Aliases: []string{"p"}, Usage: "leading simple `SELECTOR` allowed in front of scope (default: build.scope.allowed_prefixes from configuration)"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    stylesheet to process

DESTINATION:
    file to write result to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "build",
				Usage:        "Builds all themes of jQuery UI release",
				OnUsageError: usageErrorHandler,
				Action:       theme.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "version", Aliases: []string{"ver"}, Usage: "jQuery UI `VERSION` (default: build.version from configuration)"},
					&cli.StringFlag{Name: "scope", Usage: "scope `SELECTOR` for produced stylesheets (default: build.scope.selector from configuration)"},
					&cli.StringFlag{Name: "source", Aliases: []string{"src"}, Usage: "jQuery UI release `PATH`: directory or zip archive"},
					&cli.StringFlag{Name: "images", Usage: "theme images `PATH`: directory or zip archive"},
					&cli.StringFlag{Name: "defaults", Usage: "`FILE` with default template values (JSON or YAML)"},
				},
				ArgsUsage: "[DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
Themes are listed in "build/themes" file of the release as comma separated
ThemeRoller query strings. Every theme gets its own directory with images
and assembled stylesheet.

DESTINATION:
    output directory, if absent - build.output_dir from configuration
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "qs2json",
				Usage:        "Prints theme variables (JSON) of ThemeRoller query string",
				OnUsageError: usageErrorHandler,
				Action:       queryToJSON,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "t-name", Usage: "output theme name only"},
				},
				ArgsUsage: "[QUERY]",
				CustomHelpTemplate: fmt.Sprintf(`%s
QUERY:
    ThemeRoller query string, if absent - read from STDIN.
    Looks like "download=true&files%%5B%%5D=ui.core.js&...&theme=%%3FffDefault%%3DTrebuchet..."
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "json2qs",
				Usage:        "Prints ThemeRoller query string for theme variables (JSON or YAML)",
				OnUsageError: usageErrorHandler,
				Action:       jsonToQuery,
				ArgsUsage:    "NAME [FILE]",
				CustomHelpTemplate: fmt.Sprintf(`%s
NAME:
    theme name

FILE:
    theme variables, if absent - read from STDIN
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
