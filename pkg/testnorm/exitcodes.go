// Package testnorm provides public constants for tools that invoke the
// testnorm CLI from scripts or CI pipelines.
package testnorm

// Exit codes returned by the testnorm CLI.
const (
	// ExitSuccess indicates the command completed successfully. Missing or
	// malformed input reports still exit with ExitSuccess.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (unreadable input, unwritable
	// output, or failing tests when --fail-on-failures is set).
	ExitFailure = 1

	// ExitUsageError indicates invalid arguments or an invalid configuration file.
	ExitUsageError = 2
)
