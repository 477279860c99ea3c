package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/testnorm/internal/results"
	"github.com/AndreyAkinshin/testnorm/internal/status"
)

var titleCase = cases.Title(language.English)

// OutcomeLabel returns the display label of an outcome, e.g. "Passed".
func OutcomeLabel(o status.Outcome) string {
	return titleCase.String(o.String())
}

// ResultsTable renders per-outcome counts and the pass percentage.
func (w *Writer) ResultsTable(title string, s results.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	if title != "" {
		t.SetTitle(title)
	}
	style := table.StyleLight
	if w.color {
		style = table.StyleRounded
	}
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)

	t.AppendHeader(table.Row{"Outcome", "Tests", "Share"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Tests", Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Name: "Share", Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	counts := map[status.Outcome]int{
		status.Passed:       s.Passed,
		status.Failed:       s.Failed,
		status.Skipped:      s.Skipped,
		status.ExpectedFail: s.XFailed,
		status.Other:        s.Other,
	}
	for _, o := range status.Outcomes {
		label := OutcomeLabel(o)
		if w.color {
			label = outcomeColor(o).Sprint(label)
		}
		t.AppendRow(table.Row{label, counts[o], share(counts[o], s.Total)})
	}

	t.AppendFooter(table.Row{"Total", s.Total, fmt.Sprintf("%.2f%% passed", s.Percentage)})
	t.Render()

	if s.Warnings > 0 {
		w.Info("%d warning(s) reported by the test runner", s.Warnings)
	}
}

func share(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

func outcomeColor(o status.Outcome) text.Colors {
	switch o {
	case status.Passed:
		return text.Colors{text.FgGreen}
	case status.Failed:
		return text.Colors{text.FgRed}
	case status.Skipped, status.ExpectedFail:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgHiBlack}
	}
}
