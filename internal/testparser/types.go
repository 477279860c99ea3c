// Package testparser turns raw test reports of various dialects into a
// stream of named test records.
package testparser

import (
	"fmt"
	"iter"
)

// Record is a single test result discovered in a raw report.
type Record struct {
	Name   string // Display name; may be empty for anonymous leaves
	Status string // Raw status token as found in the report; empty when absent
}

// Document is a parsed report.
type Document interface {
	// Records yields every test record in document order.
	Records() iter.Seq[Record]
	// Warnings returns free-form warnings carried by the report itself.
	Warnings() []string
}

// Parser defines the interface for report parsers.
type Parser interface {
	// Parse decodes a raw report. The returned Document is never nil: on
	// malformed input it is empty and the error describes the failure.
	Parse(data []byte) (Document, error)
	// Name returns the name of the parser.
	Name() string
}

// ParseError reports a malformed payload that was replaced by an empty report.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// emptyDocument has no records and no warnings.
type emptyDocument struct{}

func (emptyDocument) Records() iter.Seq[Record] {
	return func(func(Record) bool) {}
}

func (emptyDocument) Warnings() []string {
	return nil
}
