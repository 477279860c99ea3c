package testparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"iter"

	"github.com/AndreyAkinshin/testnorm/internal/status"
)

// warningsField is the top-level field holding report-level warnings.
const warningsField = "warnings"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TreeFields configures how the tree walker recognizes suites, containers and leaves.
type TreeFields struct {
	Names           NameFields
	Suite           []string // list fields marking a node as a suite of assertions
	SuiteBase       []string // suite fields used as the fallback name of its assertions
	AssertionStatus []string // status fields of a suite assertion
	LeafStatus      []string // status fields of a standalone leaf
	Nested          []string // list fields recursed into
}

// DefaultTreeFields returns the field names produced by Storybook, Jest and Vitest reporters.
func DefaultTreeFields() TreeFields {
	return TreeFields{
		Names:           DefaultNameFields(),
		Suite:           []string{"assertionResults"},
		SuiteBase:       []string{"name", "file", "testFilePath", "test_file_path"},
		AssertionStatus: []string{"status", "outcome"},
		LeafStatus:      []string{"status", "outcome", "result"},
		Nested:          []string{"tests", "testResults", "results", "suites", "children"},
	}
}

type nodeKind int

const (
	kindUnrecognized nodeKind = iota
	kindSuite
	kindContainer
	kindLeaf
)

// node is a classified JSON value.
type node struct {
	kind     nodeKind
	fields   Fields // suite and leaf nodes
	children []any  // suite assertions or container elements
}

// TreeWalker discovers test records in JSON trees of arbitrary shape.
type TreeWalker struct {
	names           *nameResolver
	suite           []string
	suiteBase       []accessor
	assertionStatus []accessor
	leafStatus      []accessor
	nested          []string
}

// NewTreeWalker creates a walker for the given field configuration.
func NewTreeWalker(fields TreeFields) *TreeWalker {
	return &TreeWalker{
		names:           newNameResolver(fields.Names),
		suite:           fields.Suite,
		suiteBase:       stringFields(fields.SuiteBase),
		assertionStatus: stringFields(fields.AssertionStatus),
		leafStatus:      stringFields(fields.LeafStatus),
		nested:          fields.Nested,
	}
}

// Walk lazily yields the records found under payload. fallback names
// leaves that carry no name of their own.
func (w *TreeWalker) Walk(payload any, fallback string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		w.walk(payload, fallback, yield)
	}
}

func (w *TreeWalker) classify(v any) node {
	if list, ok := v.([]any); ok {
		return node{kind: kindContainer, children: list}
	}
	f, ok := asObject(v)
	if !ok {
		return node{kind: kindUnrecognized}
	}
	if entries, ok := listField(f, w.suite); ok {
		return node{kind: kindSuite, fields: f, children: entries}
	}

	var children []any
	nested := false
	for _, key := range w.nested {
		val, _ := f.Lookup(key)
		if list, ok := val.([]any); ok {
			nested = true
			children = append(children, list...)
		}
	}
	if nested {
		return node{kind: kindContainer, fields: f, children: children}
	}
	return node{kind: kindLeaf, fields: f}
}

// walk returns false once yield asks to stop.
func (w *TreeWalker) walk(v any, fallback string, yield func(Record) bool) bool {
	n := w.classify(v)
	switch n.kind {
	case kindSuite:
		return w.walkSuite(n, fallback, yield)
	case kindContainer:
		for _, child := range n.children {
			if !w.walk(child, fallback, yield) {
				return false
			}
		}
	case kindLeaf:
		name := w.names.resolve(n.fields, fallback)
		raw, _ := firstOf(n.fields, w.leafStatus)
		if name != "" || status.Normalize(raw) != status.Unknown {
			return yield(Record{Name: name, Status: raw})
		}
	}
	return true
}

func (w *TreeWalker) walkSuite(n node, fallback string, yield func(Record) bool) bool {
	base, ok := firstOf(n.fields, w.suiteBase)
	if !ok {
		base = fallback
	}
	for _, entry := range n.children {
		f, ok := asObject(entry)
		if !ok {
			continue
		}
		name := w.names.resolve(f, base)
		if name == "" {
			continue
		}
		raw, _ := firstOf(f, w.assertionStatus)
		if !yield(Record{Name: name, Status: raw}) {
			return false
		}
	}
	return true
}

// TreeDocument is a decoded JSON report.
type TreeDocument struct {
	payload any
	walker  *TreeWalker
}

// Records yields every record of the report.
func (d *TreeDocument) Records() iter.Seq[Record] {
	return d.walker.Walk(d.payload, "")
}

// Warnings returns the truthy entries of the top-level warnings list.
func (d *TreeDocument) Warnings() []string {
	f, ok := asObject(d.payload)
	if !ok {
		return nil
	}
	list, ok := listField(f, []string{warningsField})
	if !ok {
		return nil
	}
	var warnings []string
	for _, item := range list {
		if s, ok := scalarText(item); ok {
			warnings = append(warnings, s)
		}
	}
	return warnings
}

// StorybookParser parses nested JSON reports from Storybook's test runner
// and other Jest-compatible reporters.
type StorybookParser struct {
	walker *TreeWalker
}

// NewStorybookParser creates a parser using the given field configuration.
func NewStorybookParser(fields TreeFields) *StorybookParser {
	return &StorybookParser{walker: NewTreeWalker(fields)}
}

// Name returns the parser name.
func (p *StorybookParser) Name() string {
	return "storybook"
}

// Parse decodes a JSON report. Empty input yields an empty document.
func (p *StorybookParser) Parse(data []byte) (Document, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return emptyDocument{}, nil
	}
	payload, err := decodeJSON(data)
	if err != nil {
		return emptyDocument{}, &ParseError{Format: "JSON", Err: err}
	}
	return &TreeDocument{payload: payload, walker: p.walker}, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers verbatim.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}
