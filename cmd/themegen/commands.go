package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themegen/css"
	"themegen/csstemplate"
	"themegen/state"
	"themegen/theme"
	"themegen/tree"
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

func renderTemplate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no template specified")
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	name := cmd.Args().Get(0)

	src, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("unable to read template: %w", err)
	}
	if err := env.Rpt.StoreCopy("template/"+filepath.Base(name), name); err != nil {
		env.Log.Warn("Unable to store template in report", zap.Error(err))
	}
	values, err := csstemplate.LoadValues(stdin)
	if err != nil {
		return err
	}
	defaults, err := env.Defaults(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	root, err := css.NewParser(env.Log).Parse(src, name)
	if err != nil {
		return err
	}
	c := tree.Wrap(root)
	if env.Rpt != nil {
		env.Rpt.StoreData("tree/"+filepath.Base(name)+".txt", []byte(c.PrintDebug()))
	}

	if err := env.Engine().Apply(c, csstemplate.Defaults(values, defaults)); err != nil {
		return err
	}
	out := c.Print()
	env.Rpt.StoreData("rendered/"+filepath.Base(name), []byte(out))

	_, err = io.WriteString(cmd.Root().Writer, out)
	return err
}

func listTags(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no template specified")
	}
	name := cmd.Args().Get(0)

	src, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("unable to read template: %w", err)
	}
	root, err := css.NewParser(env.Log).Parse(src, name)
	if err != nil {
		return err
	}

	_, err = io.WriteString(cmd.Root().Writer, placeholderTable(env.Engine().Tags(tree.Wrap(root)))+"\n")
	return err
}

func placeholderTable(tags []csstemplate.Placeholder) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	// tags are case sensitive, keep them as is
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{"#", "Tag", "Property", "Policy", "Current"})
	for i, p := range tags {
		tbl.AppendRow(table.Row{i + 1, p.Tag, p.Property, p.Policy.String(), p.Current})
	}
	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d", len(tags))})
	return tbl.Render()
}

func scopeStylesheet(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no source stylesheet specified")
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	name := cmd.Args().Get(0)

	prefixes := cmd.StringSlice("prefix")
	if len(prefixes) == 0 {
		prefixes = env.Cfg.Build.Scope.AllowedPrefixes
	}

	src, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	root, err := css.NewParser(env.Log).Parse(src, name)
	if err != nil {
		return err
	}
	c := tree.Wrap(root)
	n, err := css.ScopeSelectors(c, prefixes, css.Selector(cmd.String("selector")))
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		f, err := os.Create(dst)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		out = f
	} else {
		dst = "STDOUT"
	}
	if _, err := c.WriteTo(out); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	env.Log.Info("Stylesheet scoped", zap.String("source", name), zap.String("destination", dst), zap.Int("selectors", n))
	return nil
}

func queryToJSON(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() > 1 {
		return errors.New("malformed command line, single query string expected")
	}
	qs := cmd.Args().Get(0)
	if len(qs) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("unable to read query string: %w", err)
		}
		qs = string(data)
	}

	name, vars, err := theme.ParseQuery(qs)
	if err != nil {
		return err
	}
	env.Log.Debug("Query string parsed", zap.String("theme", name), zap.Int("variables", len(vars)))

	out := name
	if !cmd.Bool("t-name") {
		data, err := json.MarshalIndent(vars, "", "    ")
		if err != nil {
			return err
		}
		out = string(data)
	}
	_, err = io.WriteString(cmd.Root().Writer, out)
	return err
}

func jsonToQuery(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 || cmd.Args().Len() > 2 {
		return errors.New("malformed command line, theme name and optional file expected")
	}
	name := cmd.Args().Get(0)

	in := stdin
	if fname := cmd.Args().Get(1); len(fname) > 0 {
		f, err := os.Open(fname)
		if err != nil {
			return fmt.Errorf("unable to open theme variables: %w", err)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		in = f
	}

	values, err := csstemplate.LoadValues(in)
	if err != nil {
		return err
	}
	vars, err := theme.VarsFromValues(values)
	if err != nil {
		return err
	}
	env.Log.Debug("Theme variables loaded", zap.String("theme", name), zap.Strings("names", vars.Keys()))

	_, err = io.WriteString(cmd.Root().Writer, strings.TrimSpace(theme.EncodeQuery(name, vars)))
	return err
}
