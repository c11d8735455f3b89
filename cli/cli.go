package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ftl/cli/cmd"
	"github.com/ardnew/ftl/pkg"
)

// CLI is the top-level command-line interface for ftl.
type CLI struct {
	Log    logConfig    `embed:"" group:"log"    prefix:"log-"`
	Pprof  pprofConfig  `embed:"" group:"pprof"  prefix:"pprof-"`
	Engine engineConfig `embed:"" group:"engine"`

	Data    []string         `help:"Data model file(s) in YAML or JSON, or '-' for stdin" name:"data" short:"d" type:"existingfile"`
	Version kong.VersionFlag `help:"Print version and exit"                                short:"V"`

	Render   cmd.Render   `cmd:"" default:"withargs" help:"Render a template"`
	Eval     cmd.Eval     `cmd:""                    help:"Evaluate expressions"`
	Fmt      cmd.Fmt      `cmd:""                    help:"Print a template in canonical form"`
	Builtins cmd.Builtins `cmd:""                    help:"List builtins"`
	Repl     cmd.Repl     `cmd:""                    help:"Start an interactive expression shell"`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the ftl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		"version":            strings.TrimSpace(pkg.Version),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Engine.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that errors reported during
	// parsing already use them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Engine.group()},
		),
		kong.DefaultEnvars(strings.TrimSuffix(pkg.EnvPrefix(), "_")),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEngineOptions(ctx, cli.Engine.options()...)
	ctx = cmd.WithDataFiles(ctx, cli.Data)

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
