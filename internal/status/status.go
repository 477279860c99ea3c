// Package status maps free-form test status tokens onto canonical outcomes.
package status

import (
	"fmt"
	"strings"
)

// Unknown is the normalized token for an absent or empty status.
const Unknown = "unknown"

// Outcome is a canonical test result category.
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Skipped
	ExpectedFail
	Other
)

// Outcomes lists every outcome in emission order.
var Outcomes = []Outcome{Passed, Failed, Skipped, ExpectedFail, Other}

// String returns the label used in canonical artifacts.
func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	case ExpectedFail:
		return "xfailed"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Taxonomy lists the raw tokens belonging to each non-Other outcome.
// Tokens are compared after normalization.
type Taxonomy struct {
	Passed  []string
	Failed  []string
	Skipped []string
	XFailed []string
}

// DefaultTaxonomy returns the built-in status vocabulary.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Passed:  []string{"passed", "pass", "success"},
		Failed:  []string{"failed", "fail", "error", "broken", "timedout", "timed_out"},
		Skipped: []string{"skipped", "skip", "pending", "todo", "disabled"},
		XFailed: []string{"xfailed", "xfail", "expected_fail"},
	}
}

// Classifier resolves raw status strings. It is immutable and safe for
// concurrent use once constructed.
type Classifier struct {
	table map[string]Outcome
}

// NewClassifier builds a classifier from a taxonomy. When a token appears in
// more than one list the earlier outcome (Passed, Failed, Skipped, XFailed) wins.
func NewClassifier(tax Taxonomy) *Classifier {
	c := &Classifier{table: make(map[string]Outcome)}
	c.add(tax.Passed, Passed)
	c.add(tax.Failed, Failed)
	c.add(tax.Skipped, Skipped)
	c.add(tax.XFailed, ExpectedFail)
	return c
}

func (c *Classifier) add(tokens []string, o Outcome) {
	for _, tok := range tokens {
		key := Normalize(tok)
		if _, exists := c.table[key]; !exists {
			c.table[key] = o
		}
	}
}

// Classify returns the outcome for a raw status string.
func (c *Classifier) Classify(raw string) Outcome {
	if o, ok := c.table[Normalize(raw)]; ok {
		return o
	}
	return Other
}

// Normalize trims, lower-cases and replaces spaces with underscores.
// Empty input normalizes to Unknown.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unknown
	}
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}
