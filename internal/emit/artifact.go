// Package emit serializes aggregated results into their on-disk forms.
package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/AndreyAkinshin/testnorm/internal/results"
	"github.com/AndreyAkinshin/testnorm/internal/schema"
	"github.com/AndreyAkinshin/testnorm/internal/status"
	"github.com/AndreyAkinshin/testnorm/internal/testparser"
)

// TestEntry is one row of the canonical "tests" list.
type TestEntry struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Artifact is the canonical results document. Fields are declared in
// key order so the encoded object has sorted keys.
type Artifact struct {
	AllTests     []string    `json:"all_tests"`
	FailingTests []string    `json:"failing_tests"`
	PassingTests []string    `json:"passing_tests"`
	SkippedTests []string    `json:"skipped_tests"`
	Tests        []TestEntry `json:"tests"`
	Warnings     []string    `json:"warnings"`
	XFailedTests []string    `json:"xfailed_tests"`
}

// NewArtifact builds the canonical document for a result. Tests are listed
// bucket by bucket in outcome order.
func NewArtifact(r *results.Result) *Artifact {
	a := &Artifact{
		AllTests:     nonNil(r.All),
		FailingTests: nonNil(r.Failing),
		PassingTests: nonNil(r.Passing),
		SkippedTests: nonNil(r.Skipped),
		Tests:        []TestEntry{},
		Warnings:     nonNil(r.Warnings),
		XFailedTests: nonNil(r.XFailed),
	}
	for _, o := range status.Outcomes {
		for _, name := range r.Bucket(o) {
			a.Tests = append(a.Tests, TestEntry{ID: name, Status: o.String()})
		}
	}
	return a
}

// ReadArtifact loads and validates a canonical document.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	if err := schema.ValidateCanonical(data); err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	return &a, nil
}

// Result rebuilds the aggregated result. The other bucket has no list of
// its own and is recovered from the tests entries.
func (a *Artifact) Result() *results.Result {
	r := &results.Result{
		Passing:  a.PassingTests,
		Failing:  a.FailingTests,
		Skipped:  a.SkippedTests,
		XFailed:  a.XFailedTests,
		Other:    []string{},
		All:      a.AllTests,
		Warnings: a.Warnings,
	}
	for _, t := range a.Tests {
		if t.Status == status.Other.String() {
			r.Other = append(r.Other, t.ID)
		}
	}
	return r
}

// Marshal encodes v with two-space indentation and no HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteArtifact validates and atomically writes the canonical document.
func WriteArtifact(path string, a *Artifact) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}
	if err := schema.ValidateCanonical(data); err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// WriteTRXReport validates and atomically writes a converted TRX report.
func WriteTRXReport(path string, report *testparser.TRXReport) error {
	data, err := Marshal(report)
	if err != nil {
		return err
	}
	if err := schema.ValidateTRXReport(data); err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
