package schema

import (
	"strings"
	"testing"
)

func TestValidateCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "empty artifact",
			data: `{"all_tests": [], "failing_tests": [], "passing_tests": [], "skipped_tests": [],
				"tests": [], "warnings": [], "xfailed_tests": []}`,
		},
		{
			name: "populated artifact",
			data: `{"all_tests": ["a", "b"], "failing_tests": ["b"], "passing_tests": ["a"], "skipped_tests": [],
				"tests": [{"id": "a", "status": "passed"}, {"id": "b", "status": "failed"}],
				"warnings": ["slow"], "xfailed_tests": []}`,
		},
		{
			name:    "missing bucket",
			data:    `{"all_tests": [], "failing_tests": [], "passing_tests": [], "tests": [], "warnings": [], "xfailed_tests": []}`,
			wantErr: "canonical artifact validation failed",
		},
		{
			name: "unknown status",
			data: `{"all_tests": ["a"], "failing_tests": [], "passing_tests": [], "skipped_tests": [],
				"tests": [{"id": "a", "status": "flaky"}], "warnings": [], "xfailed_tests": []}`,
			wantErr: "canonical artifact validation failed",
		},
		{
			name: "duplicate names",
			data: `{"all_tests": ["a", "a"], "failing_tests": [], "passing_tests": [], "skipped_tests": [],
				"tests": [], "warnings": [], "xfailed_tests": []}`,
			wantErr: "canonical artifact validation failed",
		},
		{
			name:    "not JSON",
			data:    `{`,
			wantErr: "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateCanonical([]byte(tt.data))
			checkErr(t, err, tt.wantErr)
		})
	}
}

func TestValidateTRXReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "default report",
			data: `{"summary": {"total": 0, "passed": 0, "failed": 0, "skipped": 0}, "tests": [], "exitcode": 0}`,
		},
		{
			name: "failing report",
			data: `{"summary": {"total": 1, "passed": 0, "failed": 1, "skipped": 0},
				"tests": [{"nodeid": "A::b", "outcome": "failed", "longrepr": ["msg", "stack"]}], "exitcode": 1}`,
		},
		{
			name: "too many failure details",
			data: `{"summary": {"total": 1, "passed": 0, "failed": 1, "skipped": 0},
				"tests": [{"nodeid": "A::b", "outcome": "failed", "longrepr": ["a", "b", "c"]}], "exitcode": 1}`,
			wantErr: "TRX report validation failed",
		},
		{
			name:    "bad exit code",
			data:    `{"summary": {"total": 0, "passed": 0, "failed": 0, "skipped": 0}, "tests": [], "exitcode": 2}`,
			wantErr: "TRX report validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTRXReport([]byte(tt.data))
			checkErr(t, err, tt.wantErr)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	if err := ValidateConfig([]byte(`{"statuses": {"passed": ["ok"]}, "trx": {"name_separator": "."}}`)); err != nil {
		t.Errorf("ValidateConfig(valid) error = %v", err)
	}
	if err := ValidateConfig([]byte(`{"statuses": {"passed": "ok"}}`)); err == nil {
		t.Error("ValidateConfig(string token list) error = nil, want error")
	}
	if err := ValidateConfig([]byte(`{"fields": {"nested": [""]}}`)); err == nil {
		t.Error("ValidateConfig(empty field name) error = nil, want error")
	}
}

func checkErr(t *testing.T, err error, wantErr string) {
	t.Helper()
	if wantErr == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", wantErr)
	}
	if !strings.Contains(err.Error(), wantErr) {
		t.Errorf("error = %q, want substring %q", err.Error(), wantErr)
	}
}
