package emit

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/AndreyAkinshin/testnorm/internal/results"
	"github.com/AndreyAkinshin/testnorm/internal/status"
	"github.com/AndreyAkinshin/testnorm/internal/testparser"
)

func result(records ...testparser.Record) *results.Result {
	c := status.NewClassifier(status.DefaultTaxonomy())
	return results.Aggregate(c, slices.Values(records), nil)
}

const emptyArtifact = `{
  "all_tests": [],
  "failing_tests": [],
  "passing_tests": [],
  "skipped_tests": [],
  "tests": [],
  "warnings": [],
  "xfailed_tests": []
}`

func TestMarshal_EmptyArtifact(t *testing.T) {
	t.Parallel()
	data, err := Marshal(NewArtifact(result()))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(emptyArtifact, string(data)); diff != "" {
		t.Errorf("Marshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewArtifact_TestsInBucketOrder(t *testing.T) {
	t.Parallel()
	r := result(
		testparser.Record{Name: "z-other", Status: "mystery"},
		testparser.Record{Name: "b-pass", Status: "passed"},
		testparser.Record{Name: "a-xfail", Status: "xfailed"},
		testparser.Record{Name: "c-skip", Status: "skipped"},
		testparser.Record{Name: "a-pass", Status: "passed"},
		testparser.Record{Name: "d-fail", Status: "failed"},
	)
	r.Warnings = []string{"<slow> & flaky"}

	got := NewArtifact(r)
	want := &Artifact{
		AllTests:     []string{"a-pass", "a-xfail", "b-pass", "c-skip", "d-fail", "z-other"},
		FailingTests: []string{"d-fail"},
		PassingTests: []string{"a-pass", "b-pass"},
		SkippedTests: []string{"c-skip"},
		Tests: []TestEntry{
			{ID: "a-pass", Status: "passed"},
			{ID: "b-pass", Status: "passed"},
			{ID: "d-fail", Status: "failed"},
			{ID: "c-skip", Status: "skipped"},
			{ID: "a-xfail", Status: "xfailed"},
			{ID: "z-other", Status: "other"},
		},
		Warnings:     []string{"<slow> & flaky"},
		XFailedTests: []string{"a-xfail"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewArtifact() mismatch (-want +got):\n%s", diff)
	}

	data, err := Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"<slow> & flaky"`) {
		t.Errorf("Marshal() escaped HTML characters:\n%s", data)
	}
}

func TestWriteArtifact_Idempotent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	r := result(
		testparser.Record{Name: "b", Status: "passed"},
		testparser.Record{Name: "a", Status: "failed"},
	)

	if err := os.WriteFile(path, []byte("stale content that is longer than the artifact itself"), 0o644); err != nil {
		t.Fatal(err)
	}

	var runs [][]byte
	for i := 0; i < 2; i++ {
		if err := WriteArtifact(path, NewArtifact(r)); err != nil {
			t.Fatalf("WriteArtifact() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		runs = append(runs, data)
	}
	if !bytes.Equal(runs[0], runs[1]) {
		t.Errorf("artifact differs between runs:\n%s\n---\n%s", runs[0], runs[1])
	}
	if bytes.Contains(runs[0], []byte("stale")) {
		t.Errorf("artifact kept stale content:\n%s", runs[0])
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the artifact", len(entries))
	}
}

func TestWriteArtifact_MissingDirectory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing", "results.json")
	if err := WriteArtifact(path, NewArtifact(result())); err == nil {
		t.Error("WriteArtifact() error = nil, want error")
	}
}

func TestReadArtifact_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results.json")
	r := result(
		testparser.Record{Name: "ok", Status: "passed"},
		testparser.Record{Name: "odd", Status: "flaky"},
		testparser.Record{Name: "bad", Status: "failed"},
	)
	r.Warnings = []string{"deprecated API"}

	if err := WriteArtifact(path, NewArtifact(r)); err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}
	a, err := ReadArtifact(path)
	if err != nil {
		t.Fatalf("ReadArtifact() error = %v", err)
	}
	if diff := cmp.Diff(r, a.Result(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Result() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadArtifact_Invalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte(`{"all_tests": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadArtifact(path); err == nil {
		t.Error("ReadArtifact() error = nil, want schema error")
	}
}

func TestWriteTRXReport(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.json")
	report := testparser.NewTRXReport()
	report.Summary = testparser.TRXSummary{Total: 1, Failed: 1}
	report.Tests = append(report.Tests, testparser.TRXTest{NodeID: "A::b", Outcome: "failed", Longrepr: []string{"boom"}})
	report.ExitCode = 1

	if err := WriteTRXReport(path, report); err != nil {
		t.Fatalf("WriteTRXReport() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "summary": {
    "total": 1,
    "passed": 0,
    "failed": 1,
    "skipped": 0
  },
  "tests": [
    {
      "nodeid": "A::b",
      "outcome": "failed",
      "longrepr": [
        "boom"
      ]
    }
  ],
  "exitcode": 1
}`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryOutputs(t *testing.T) {
	t.Parallel()
	r := result(
		testparser.Record{Name: "a", Status: "passed"},
		testparser.Record{Name: "b", Status: "passed"},
		testparser.Record{Name: "c", Status: "failed"},
	)
	r.Warnings = []string{"w"}

	outs, err := SummaryOutputs(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `total=3
passed=2
failed=1
skipped=0
xfailed=0
warnings_count=1
percentage=66.67
passing_items_json=["a","b"]
failing_items_json=["c"]
skipped_items_json=[]
xfailed_items_json=[]
all_items_json=["a","b","c"]
warnings_json=["w"]
has_failures=true
no_tests_found=false
collection_errors=false
`
	if diff := cmp.Diff(want, FormatOutputs(outs)); diff != "" {
		t.Errorf("FormatOutputs() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryOutputs_Empty(t *testing.T) {
	t.Parallel()
	outs, err := SummaryOutputs(result())
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]string)
	for _, o := range outs {
		k, v, _ := strings.Cut(o.String(), "=")
		got[k] = v
	}
	for key, want := range map[string]string{
		"total":          "0",
		"percentage":     "0.00",
		"no_tests_found": "true",
		"has_failures":   "false",
		"all_items_json": "[]",
		"warnings_json":  "[]",
	} {
		if got[key] != want {
			t.Errorf("%s = %q, want %q", key, got[key], want)
		}
	}
}

func TestAppendOutputs_PreservesExistingLines(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "github_output")
	if err := os.WriteFile(path, []byte("existing=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outs := []Output{{"total", 2}, {"percentage", 12.5}}
	for i := 0; i < 2; i++ {
		if err := AppendOutputs(path, outs); err != nil {
			t.Fatalf("AppendOutputs() error = %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "existing=1\ntotal=2\npercentage=12.50\ntotal=2\npercentage=12.50\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("outputs file mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendOutputs_CreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "new_output")
	if err := AppendOutputs(path, []Output{{"collection_errors", "false"}}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "collection_errors=false\n" {
		t.Errorf("outputs file = %q", data)
	}
}

func TestNewSummary(t *testing.T) {
	t.Parallel()
	s := NewSummary(results.Stats{Total: 4, Passed: 1, Failed: 3, Percentage: 25})
	data, err := Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"no_tests_found": "false"`) {
		t.Errorf("summary missing no_tests_found flag:\n%s", data)
	}
}
