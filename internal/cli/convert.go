package cli

import (
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndreyAkinshin/testnorm/internal/emit"
	"github.com/AndreyAkinshin/testnorm/internal/errors"
	"github.com/AndreyAkinshin/testnorm/internal/results"
	"github.com/AndreyAkinshin/testnorm/internal/testparser"
)

// canonicalOptions are the flags shared by commands writing the canonical artifact.
type canonicalOptions struct {
	format       string
	githubOutput string
}

func (o *canonicalOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.githubOutput, "github-output", "", "append key=value summary lines to this file (e.g. $GITHUB_OUTPUT)")
}

func (a *app) storybookCommand() *cobra.Command {
	opts := &canonicalOptions{format: "storybook"}
	cmd := &cobra.Command{
		Use:   "storybook <input.json> <output.json>",
		Short: "Normalize a Storybook or Jest JSON report",
		Long: `Normalize a Storybook or Jest JSON report into the canonical results schema.

A missing, empty or malformed input produces an empty artifact; the command
still succeeds. A one-line JSON summary is printed to stdout.`,
		Args: exactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.convertCanonical(opts, args[0], args[1])
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *app) normalizeCommand() *cobra.Command {
	opts := &canonicalOptions{}
	cmd := &cobra.Command{
		Use:   "normalize --format <format> <input> <output.json>",
		Short: "Normalize a report of any supported format",
		Args:  exactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.convertCanonical(opts, args[0], args[1])
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "storybook", "input format: "+strings.Join(testparser.NewRegistry(testparser.DefaultOptions()).Formats(), ", "))
	return cmd
}

// convertCanonical runs one report through the classifier and aggregator
// and writes the canonical artifact.
func (a *app) convertCanonical(opts *canonicalOptions, input, output string) error {
	parser := a.registry.GetParser(opts.format)
	if parser == nil {
		return errors.Usagef("unsupported format %q (supported: %s)", opts.format, strings.Join(a.registry.Formats(), ", "))
	}

	doc, err := a.parse(parser, input)
	if err != nil {
		return err
	}

	res := results.Aggregate(a.classifier, doc.Records(), doc.Warnings())
	if err := emit.WriteArtifact(output, emit.NewArtifact(res)); err != nil {
		return errors.IO("write", output, err)
	}

	stats := res.Stats()
	a.logger.Info("wrote canonical artifact",
		zap.String("input", input),
		zap.String("output", output),
		zap.String("parser", parser.Name()),
		zap.Int("total", stats.Total),
		zap.Int("failed", stats.Failed),
		zap.Int("warnings", stats.Warnings),
	)

	if opts.githubOutput != "" {
		outs, err := emit.SummaryOutputs(res)
		if err != nil {
			return errors.Wrap(err, "failed to build summary outputs")
		}
		if err := emit.AppendOutputs(opts.githubOutput, outs); err != nil {
			return errors.IO("append to", opts.githubOutput, err)
		}
	}

	line, err := json.Marshal(emit.NewSummary(stats))
	if err != nil {
		return errors.Wrap(err, "failed to encode summary")
	}
	a.out.Println("%s", line)
	return nil
}

// parse reads and parses input. Malformed payloads are reported and replaced
// by the empty document the parser returned; only read failures are errors.
func (a *app) parse(parser testparser.Parser, input string) (testparser.Document, error) {
	data, err := testparser.ReadInput(input)
	if err != nil {
		return nil, errors.IO("read", input, err)
	}
	if data == nil {
		a.logger.Debug("input not found, treating as empty report", zap.String("input", input))
	}

	doc, err := parser.Parse(data)
	if err != nil {
		a.reportParseError(input, err)
	}
	return doc, nil
}

func (a *app) reportParseError(input string, err error) {
	cause, format := err, "input"
	var pe *testparser.ParseError
	if stderrors.As(err, &pe) {
		cause, format = pe.Err, pe.Format
	}
	a.out.Annotation("warning", "Failed to parse %s from %s: %v", format, input, cause)
	a.logger.Debug("parse failed, emitting empty report", zap.String("input", input), zap.Error(err))
}

func (a *app) trxCommand() *cobra.Command {
	var failOnFailures bool
	cmd := &cobra.Command{
		Use:   "trx <input.trx> <output.json>",
		Short: "Convert a Visual Studio TRX file to a pytest-style JSON report",
		Long: `Convert a Visual Studio TRX file to a pytest-style JSON report with
summary counters, per-test outcomes and an exitcode field.

Outcomes are kept verbatim (lower-cased); notExecuted and inconclusive
become skipped. Use "normalize --format trx" for the canonical schema.`,
		Args: exactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.convertTRX(args[0], args[1], failOnFailures)
		},
	}
	cmd.Flags().BoolVar(&failOnFailures, "fail-on-failures", false, "exit with status 1 when the report has failed tests")
	return cmd
}

func (a *app) convertTRX(input, output string, failOnFailures bool) error {
	data, err := testparser.ReadInput(input)
	if err != nil {
		return errors.IO("read", input, err)
	}

	parser := testparser.NewTRXParser(a.cfg.ParserOptions().TRX)
	report, err := parser.ParseReport(data)
	if err != nil {
		a.reportParseError(input, err)
	}

	if err := emit.WriteTRXReport(output, report); err != nil {
		return errors.IO("write", output, err)
	}
	a.logger.Info("wrote TRX report",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("total", report.Summary.Total),
		zap.Int("failed", report.Summary.Failed),
		zap.Int("exitcode", report.ExitCode),
	)

	if failOnFailures && report.ExitCode != 0 {
		return errors.TestFailures(report.Summary.Failed)
	}
	return nil
}
