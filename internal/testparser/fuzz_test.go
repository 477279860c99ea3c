package testparser

import (
	"strings"
	"testing"
)

// FuzzStorybookParser tests the JSON tree walker with arbitrary input.
// Run: go test -fuzz=FuzzStorybookParser -fuzztime=30s ./internal/testparser
func FuzzStorybookParser(f *testing.F) {
	seeds := []string{
		`{"assertionResults": [{"fullName": "A", "status": "passed"}]}`,
		`{"testResults": [{"assertionResults": [{"name": "x", "outcome": "skip"}]}]}`,
		`[{"name": "a", "status": "passed"}, [[[{"title": "deep"}]]]]`,
		`{"warnings": ["w", null, 0], "tests": [{"status": "failed"}]}`,
		`{"ancestorTitles": ["a", "b"], "title": "c"}`,
		"",
		"null",
		"{",
		`"just a string"`,
		"[" + strings.Repeat(`{"children": [`, 200) + strings.Repeat("]}", 200) + "]",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	parser := NewStorybookParser(DefaultTreeFields())
	f.Fuzz(func(t *testing.T, input string) {
		doc, _ := parser.Parse([]byte(input))
		if doc == nil {
			t.Fatal("Parse returned nil document")
		}
		for rec := range doc.Records() {
			if rec.Name == "" && rec.Status == "" {
				t.Errorf("record with neither name nor status: %+v", rec)
			}
		}
		for i, w := range doc.Warnings() {
			if w == "" {
				t.Errorf("Warnings()[%d] is empty", i)
			}
		}
	})
}

// FuzzTRXParser tests the TRX parser with arbitrary input.
// Run: go test -fuzz=FuzzTRXParser -fuzztime=30s ./internal/testparser
func FuzzTRXParser(f *testing.F) {
	f.Add(sampleTRX)
	f.Add("")
	f.Add("<TestRun/>")
	f.Add(`<TestRun xmlns="` + DefaultTRXNamespace + `"><ResultSummary><Counters failed="x"/></ResultSummary></TestRun>`)

	parser := NewTRXParser(DefaultTRXOptions())
	f.Fuzz(func(t *testing.T, input string) {
		report, err := parser.ParseReport([]byte(input))
		if report == nil {
			t.Fatal("ParseReport returned nil report")
		}
		if err != nil && len(report.Tests) != 0 {
			t.Errorf("failed parse returned %d tests", len(report.Tests))
		}
		if (report.Summary.Failed > 0) != (report.ExitCode == 1) {
			t.Errorf("ExitCode = %d with %d failures", report.ExitCode, report.Summary.Failed)
		}
		for i, tc := range report.Tests {
			if tc.NodeID == "" || tc.Outcome == "" {
				t.Errorf("Tests[%d] has empty field: %+v", i, tc)
			}
			if tc.Longrepr == nil || len(tc.Longrepr) > 2 {
				t.Errorf("Tests[%d].Longrepr = %v", i, tc.Longrepr)
			}
		}
	})
}
