package testparser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/AndreyAkinshin/testnorm/internal/status"
)

// DefaultTRXNamespace is the XML namespace of Visual Studio test result files.
const DefaultTRXNamespace = "http://microsoft.com/schemas/VisualStudio/TeamTest/2010"

// TRXOptions configures the TRX parser.
type TRXOptions struct {
	Namespace     string // namespace every matched element must carry
	NameSeparator string // joins storage stem, class name and method name
}

// DefaultTRXOptions returns the options matching files written by dotnet test.
func DefaultTRXOptions() TRXOptions {
	return TRXOptions{
		Namespace:     DefaultTRXNamespace,
		NameSeparator: "::",
	}
}

// TRXSummary holds the counters of a TRX result summary.
type TRXSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// TRXTest is a single unit test result.
type TRXTest struct {
	NodeID   string   `json:"nodeid"`
	Outcome  string   `json:"outcome"`
	Longrepr []string `json:"longrepr"` // failure message, then stack trace
}

// TRXReport is a TRX file converted to a pytest-json-report compatible shape.
type TRXReport struct {
	Summary  TRXSummary `json:"summary"`
	Tests    []TRXTest  `json:"tests"`
	ExitCode int        `json:"exitcode"` // 1 iff Summary.Failed > 0
}

// NewTRXReport returns an empty report with all counters at zero.
func NewTRXReport() *TRXReport {
	return &TRXReport{Tests: []TRXTest{}}
}

// Records yields one record per test result, named by its node id.
func (r *TRXReport) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, t := range r.Tests {
			if !yield(Record{Name: t.NodeID, Status: t.Outcome}) {
				return
			}
		}
	}
}

// Warnings returns nil; TRX files carry no report-level warnings.
func (r *TRXReport) Warnings() []string {
	return nil
}

// TRXParser parses Visual Studio TRX test result files.
type TRXParser struct {
	opts TRXOptions
}

// NewTRXParser creates a TRX parser.
func NewTRXParser(opts TRXOptions) *TRXParser {
	return &TRXParser{opts: opts}
}

// Name returns the parser name.
func (p *TRXParser) Name() string {
	return "trx"
}

// Parse implements Parser.
func (p *TRXParser) Parse(data []byte) (Document, error) {
	return p.ParseReport(data)
}

// ParseReport converts a TRX document. The report is never nil: empty or
// malformed input yields an empty report, the latter with a *ParseError.
func (p *TRXParser) ParseReport(data []byte) (*TRXReport, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewTRXReport(), nil
	}

	doc, err := p.scan(data)
	if err != nil {
		return NewTRXReport(), &ParseError{Format: "TRX", Err: err}
	}

	report := NewTRXReport()
	report.Summary = p.summary(doc.summary)
	names := p.definitionNames(doc.definitions)
	for _, n := range doc.results {
		report.Tests = append(report.Tests, p.test(n, names))
	}
	if report.Summary.Failed > 0 {
		report.ExitCode = 1
	}
	return report, nil
}

// trxDocument holds the elements of interest, in document order.
type trxDocument struct {
	summary     *xmlNode
	definitions []*xmlNode
	results     []*xmlNode
}

// scan streams the document once, decoding only the subtrees it needs.
func (p *TRXParser) scan(data []byte) (*trxDocument, error) {
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(transform.Nop))
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	doc := &trxDocument{}
	ns := p.opts.Namespace
	depth := 0
	seenRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if seenRoot {
					return nil, errors.New("junk after document element")
				}
				seenRoot = true
			}
			depth++
			if t.Name.Space != ns {
				continue
			}
			switch t.Name.Local {
			case "UnitTest", "UnitTestResult":
			case "ResultSummary":
				if depth != 2 || doc.summary != nil {
					continue
				}
			default:
				continue
			}

			n := &xmlNode{}
			if err := dec.DecodeElement(n, &t); err != nil {
				return nil, err
			}
			depth--

			switch t.Name.Local {
			case "UnitTest":
				doc.definitions = append(doc.definitions, n)
				n.descendants(ns, "UnitTest", func(c *xmlNode) { doc.definitions = append(doc.definitions, c) })
			case "UnitTestResult":
				doc.results = append(doc.results, n)
				n.descendants(ns, "UnitTestResult", func(c *xmlNode) { doc.results = append(doc.results, c) })
			case "ResultSummary":
				doc.summary = n
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, errors.New("text outside document element")
			}
		}
	}

	if !seenRoot {
		return nil, errors.New("no document element")
	}
	return doc, nil
}

func (p *TRXParser) summary(n *xmlNode) TRXSummary {
	if n == nil {
		return TRXSummary{}
	}
	counters := n.child(p.opts.Namespace, "Counters")
	if counters == nil {
		return TRXSummary{}
	}
	return TRXSummary{
		Total:   safeInt(counters.attr("total")),
		Passed:  safeInt(counters.attr("passed")),
		Failed:  safeInt(counters.attr("failed")),
		Skipped: safeInt(counters.attr("notExecuted")),
	}
}

// definitionNames maps test ids to display names. Later definitions of the
// same id replace earlier ones.
func (p *TRXParser) definitionNames(defs []*xmlNode) map[string]string {
	names := make(map[string]string, len(defs))
	for _, def := range defs {
		id := def.attr("id", "Id")
		if id == "" {
			continue
		}
		name := def.attr("name", "Name")

		var className, methodName string
		if method := def.child(p.opts.Namespace, "TestMethod"); method != nil {
			className = method.attr("className")
			methodName = method.attr("name")
		}

		var parts []string
		if storage := def.attr("storage", "Storage"); storage != "" {
			if stem := fileStem(storage); stem != "" {
				parts = append(parts, stem)
			}
		}
		if className != "" {
			parts = append(parts, className)
		}
		if methodName != "" {
			parts = append(parts, methodName)
		} else if name != "" {
			parts = append(parts, name)
		}

		switch {
		case len(parts) > 0:
			names[id] = strings.Join(parts, p.opts.NameSeparator)
		case name != "":
			names[id] = name
		default:
			names[id] = id
		}
	}
	return names
}

func (p *TRXParser) test(n *xmlNode, names map[string]string) TRXTest {
	id := n.attr("testId", "testID")
	display, ok := names[id]
	if !ok {
		display = firstNonEmpty(n.attr("testName"), id, status.Unknown)
	}

	return TRXTest{
		NodeID:   display,
		Outcome:  trxOutcome(n.attr("outcome")),
		Longrepr: p.longrepr(n),
	}
}

// trxOutcome maps TRX outcomes onto pytest labels. Outcomes without a
// pytest counterpart pass through normalized.
func trxOutcome(raw string) string {
	outcome := status.Normalize(raw)
	switch outcome {
	case "notexecuted", "inconclusive":
		return "skipped"
	default:
		return outcome
	}
}

func (p *TRXParser) longrepr(n *xmlNode) []string {
	ns := p.opts.Namespace
	out := []string{}
	output := n.child(ns, "Output")
	if output == nil {
		return out
	}
	info := output.child(ns, "ErrorInfo")
	if info == nil {
		return out
	}
	for _, tag := range []string{"Message", "StackTrace"} {
		if c := info.child(ns, tag); c != nil {
			if text := strings.TrimSpace(c.Text); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

// xmlNode is a generic element used for namespace-aware lookups.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

// attr returns the first non-empty unqualified attribute among names.
func (n *xmlNode) attr(names ...string) string {
	for _, name := range names {
		for _, a := range n.Attrs {
			if a.Name.Space == "" && a.Name.Local == name && a.Value != "" {
				return a.Value
			}
		}
	}
	return ""
}

// child returns the first direct child with the given name.
func (n *xmlNode) child(space, local string) *xmlNode {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Space == space && c.XMLName.Local == local {
			return c
		}
	}
	return nil
}

// descendants visits matching elements below n in document order.
func (n *xmlNode) descendants(space, local string, visit func(*xmlNode)) {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Space == space && c.XMLName.Local == local {
			visit(c)
		}
		c.descendants(space, local, visit)
	}
}

// charsetReader decodes legacy encodings declared in the XML prolog.
// UTF-16 input has already been transcoded by the BOM sniffer.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// fileStem returns the final path element without its last extension.
// Both slash and backslash separate elements.
func fileStem(path string) string {
	path = strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndex(path, "."); i > 0 && i < len(path)-1 {
		return path[:i]
	}
	return path
}

// safeInt parses a decimal counter, returning 0 when absent or malformed.
func safeInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
