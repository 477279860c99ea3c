package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/testnorm/internal/results"
)

// Output is one key=value pair of the side-channel summary.
type Output struct {
	Key   string
	Value any
}

// String renders the pair as a single line without the trailing newline.
// Floats use two decimals; everything else its default form.
func (o Output) String() string {
	switch v := o.Value.(type) {
	case float64:
		return fmt.Sprintf("%s=%.2f", o.Key, v)
	default:
		return fmt.Sprintf("%s=%v", o.Key, v)
	}
}

// SummaryOutputs returns the side-channel summary of a result in its fixed key order.
func SummaryOutputs(r *results.Result) ([]Output, error) {
	s := r.Stats()

	lists := []struct {
		key   string
		names []string
	}{
		{"passing_items_json", r.Passing},
		{"failing_items_json", r.Failing},
		{"skipped_items_json", r.Skipped},
		{"xfailed_items_json", r.XFailed},
		{"all_items_json", r.All},
		{"warnings_json", r.Warnings},
	}

	outs := []Output{
		{"total", s.Total},
		{"passed", s.Passed},
		{"failed", s.Failed},
		{"skipped", s.Skipped},
		{"xfailed", s.XFailed},
		{"warnings_count", s.Warnings},
		{"percentage", s.Percentage},
	}
	for _, l := range lists {
		data, err := json.Marshal(nonNil(l.names))
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", l.key, err)
		}
		outs = append(outs, Output{l.key, string(data)})
	}
	outs = append(outs,
		Output{"has_failures", strconv.FormatBool(s.HasFailures())},
		Output{"no_tests_found", strconv.FormatBool(s.NoTestsFound())},
		Output{"collection_errors", "false"},
	)
	return outs, nil
}

// FormatOutputs renders outputs as newline-terminated key=value lines.
func FormatOutputs(outs []Output) string {
	var b strings.Builder
	for _, o := range outs {
		b.WriteString(o.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// AppendOutputs appends outputs to path, creating it if needed. Existing
// lines are never truncated.
func AppendOutputs(path string, outs []Output) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open outputs file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close outputs file: %w", cerr)
		}
	}()

	if _, err := f.WriteString(FormatOutputs(outs)); err != nil {
		return fmt.Errorf("failed to append outputs: %w", err)
	}
	return nil
}

// Summary is the one-line console summary printed after a conversion.
type Summary struct {
	Total        int     `json:"total"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
	Skipped      int     `json:"skipped"`
	XFailed      int     `json:"xfailed"`
	Warnings     int     `json:"warnings"`
	Percentage   float64 `json:"percentage"`
	NoTestsFound string  `json:"no_tests_found"`
}

// NewSummary builds the console summary from statistics.
func NewSummary(s results.Stats) Summary {
	return Summary{
		Total:        s.Total,
		Passed:       s.Passed,
		Failed:       s.Failed,
		Skipped:      s.Skipped,
		XFailed:      s.XFailed,
		Warnings:     s.Warnings,
		Percentage:   s.Percentage,
		NoTestsFound: strconv.FormatBool(s.NoTestsFound()),
	}
}
