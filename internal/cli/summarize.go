package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/testnorm/internal/emit"
	"github.com/AndreyAkinshin/testnorm/internal/errors"
)

func (a *app) summarizeCommand() *cobra.Command {
	var failOnFailures bool
	cmd := &cobra.Command{
		Use:   "summarize <results.json>",
		Short: "Print a table summarizing a canonical results artifact",
		Args:  exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.summarize(args[0], failOnFailures)
		},
	}
	cmd.Flags().BoolVar(&failOnFailures, "fail-on-failures", false, "exit with status 1 when the artifact has failing tests")
	return cmd
}

func (a *app) summarize(path string, failOnFailures bool) error {
	artifact, err := emit.ReadArtifact(path)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("cannot summarize %s", path))
	}

	r := artifact.Result()
	stats := r.Stats()
	a.out.ResultsTable(fmt.Sprintf("Test results (%s)", filepath.Base(path)), stats)

	if len(r.Failing) > 0 {
		a.out.Println("")
		a.out.SummarySectionLabel("Failing tests:")
		a.out.List(r.Failing)
	}
	if len(r.Warnings) > 0 && !a.quiet {
		a.out.Println("")
		a.out.SummarySectionLabel("Warnings:")
		a.out.List(r.Warnings)
	}

	if failOnFailures && stats.HasFailures() {
		return errors.TestFailures(stats.Failed)
	}
	return nil
}
