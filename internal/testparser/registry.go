package testparser

import (
	"sort"
	"strings"
)

// Options configures the built-in parsers.
type Options struct {
	Tree TreeFields
	TRX  TRXOptions
}

// DefaultOptions returns the built-in parser configuration.
func DefaultOptions() Options {
	return Options{
		Tree: DefaultTreeFields(),
		TRX:  DefaultTRXOptions(),
	}
}

// Registry maps report format identifiers to their parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a new parser registry with all built-in parsers.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	storybookParser := NewStorybookParser(opts.Tree)
	trxParser := NewTRXParser(opts.TRX)

	// Jest-compatible JSON reporters share one tree walker
	r.parsers["storybook"] = storybookParser
	r.parsers["jest"] = storybookParser
	r.parsers["vitest"] = storybookParser
	r.parsers["json"] = storybookParser
	r.parsers["trx"] = trxParser
	r.parsers["dotnet"] = trxParser
	r.parsers["mstest"] = trxParser

	return r
}

// GetParser returns a parser for the given format identifier.
// Returns nil if no parser is found.
func (r *Registry) GetParser(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// RegisterParser adds a custom parser for a format.
func (r *Registry) RegisterParser(format string, parser Parser) {
	r.parsers[strings.ToLower(format)] = parser
}

// Formats returns the registered format identifiers in sorted order.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
