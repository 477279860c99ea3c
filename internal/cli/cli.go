// Package cli provides the testnorm command tree.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndreyAkinshin/testnorm/internal/config"
	"github.com/AndreyAkinshin/testnorm/internal/errors"
	"github.com/AndreyAkinshin/testnorm/internal/logging"
	"github.com/AndreyAkinshin/testnorm/internal/output"
	"github.com/AndreyAkinshin/testnorm/internal/status"
	"github.com/AndreyAkinshin/testnorm/internal/testparser"
)

// Version is set at build time.
var Version = "dev"

// app carries the state shared by all commands of one invocation.
type app struct {
	out    *output.Writer
	logger *zap.Logger

	configPath string
	verbose    bool
	quiet      bool

	cfg        *config.Config
	classifier *status.Classifier
	registry   *testparser.Registry
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	return execute(args, output.New())
}

func execute(args []string, out *output.Writer) int {
	a := &app{out: out, logger: zap.NewNop()}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(out.Out())
	root.SetErr(out.Err())

	cmd, err := root.ExecuteC()
	if err == nil {
		return errors.ExitSuccess
	}

	var e *errors.Error
	switch {
	case stderrors.As(err, &e):
		if e.Command == "" && cmd != nil && cmd != root {
			err = e.WithCommand(cmd.Name())
		}
	case strings.HasPrefix(err.Error(), "unknown command"):
		err = errors.Usage(err.Error())
	}
	out.ErrorPrefix("%v", err)
	return errors.GetExitCode(err)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "testnorm",
		Short: "Normalize test runner reports into one canonical results schema",
		Long: `testnorm converts raw test reports into a canonical JSON artifact.

Supported inputs are Storybook/Jest style JSON result trees and Visual Studio
TRX files. Status vocabularies and probed field names can be customized in a
.testnorm.yaml file in the working directory or passed with --config.`,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetVersionTemplate("testnorm {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Usage(err.Error())
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a .testnorm.yaml configuration file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress informational output")

	root.AddCommand(
		a.storybookCommand(),
		a.trxCommand(),
		a.normalizeCommand(),
		a.summarizeCommand(),
		a.versionCommand(),
	)
	return root
}

// setup loads configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.out.SetQuiet(a.quiet)
	a.logger = logging.New(a.out.Err(), a.verbose)

	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.classifier = status.NewClassifier(cfg.Taxonomy())
	a.registry = testparser.NewRegistry(cfg.ParserOptions())
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	path := a.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.IO("determine", "working directory", err)
		}
		found, ok := config.Discover(wd)
		if !ok {
			a.logger.Debug("no configuration file found, using defaults")
			return config.Default(), nil
		}
		path = found
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	for _, w := range warnings {
		a.out.Warning("%s: %s", path, w)
	}
	if err != nil {
		return nil, errors.Config(fmt.Sprintf("invalid configuration %s", path), err)
	}
	a.logger.Debug("loaded configuration", zap.String("path", path))
	return cfg, nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.Usagef("accepts %d arg(s), received %d (usage: %s)", n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the testnorm version",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			a.out.Println("testnorm %s", Version)
			return nil
		},
	}
}
