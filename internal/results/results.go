// Package results deduplicates classified test records into outcome buckets.
package results

import (
	"iter"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/testnorm/internal/status"
	"github.com/AndreyAkinshin/testnorm/internal/testparser"
)

// Result is the aggregated outcome of one conversion run.
type Result struct {
	Passing  []string
	Failing  []string
	Skipped  []string
	XFailed  []string
	Other    []string
	All      []string // sorted union of every bucket
	Warnings []string // verbatim, in report order
}

// Bucket returns the sorted names assigned to an outcome.
func (r *Result) Bucket(o status.Outcome) []string {
	switch o {
	case status.Passed:
		return r.Passing
	case status.Failed:
		return r.Failing
	case status.Skipped:
		return r.Skipped
	case status.ExpectedFail:
		return r.XFailed
	default:
		return r.Other
	}
}

// Stats holds the summary figures derived from a Result.
type Stats struct {
	Total      int
	Passed     int
	Failed     int
	Skipped    int
	XFailed    int
	Other      int
	Warnings   int
	Percentage float64 // Passed/Total*100, 0 when Total is 0
}

// NoTestsFound reports whether the run contained no tests at all.
func (s Stats) NoTestsFound() bool {
	return s.Total == 0
}

// HasFailures reports whether any test failed.
func (s Stats) HasFailures() bool {
	return s.Failed > 0
}

// Stats derives the summary statistics.
func (r *Result) Stats() Stats {
	s := Stats{
		Total:    len(r.All),
		Passed:   len(r.Passing),
		Failed:   len(r.Failing),
		Skipped:  len(r.Skipped),
		XFailed:  len(r.XFailed),
		Other:    len(r.Other),
		Warnings: len(r.Warnings),
	}
	if s.Total > 0 {
		s.Percentage = float64(s.Passed) / float64(s.Total) * 100
	}
	return s
}

// Aggregator assigns each distinct test name to the outcome it was first seen with.
type Aggregator struct {
	classifier *status.Classifier
	seen       map[string]struct{}
	buckets    map[status.Outcome][]string
}

// NewAggregator creates an aggregator using the given classifier.
func NewAggregator(classifier *status.Classifier) *Aggregator {
	return &Aggregator{
		classifier: classifier,
		seen:       make(map[string]struct{}),
		buckets:    make(map[status.Outcome][]string),
	}
}

// Add records a test. Names are whitespace-trimmed; empty names and names
// already seen are ignored. Add reports whether the record was kept.
func (a *Aggregator) Add(rec testparser.Record) bool {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return false
	}
	if _, dup := a.seen[name]; dup {
		return false
	}
	a.seen[name] = struct{}{}
	o := a.classifier.Classify(rec.Status)
	a.buckets[o] = append(a.buckets[o], name)
	return true
}

// Result returns the sorted buckets collected so far.
func (a *Aggregator) Result(warnings []string) *Result {
	r := &Result{
		Passing:  sortedCopy(a.buckets[status.Passed]),
		Failing:  sortedCopy(a.buckets[status.Failed]),
		Skipped:  sortedCopy(a.buckets[status.Skipped]),
		XFailed:  sortedCopy(a.buckets[status.ExpectedFail]),
		Other:    sortedCopy(a.buckets[status.Other]),
		Warnings: append([]string{}, warnings...),
	}

	all := make([]string, 0, len(a.seen))
	for name := range a.seen {
		all = append(all, name)
	}
	sort.Strings(all)
	r.All = all
	return r
}

// Aggregate consumes every record of a sequence.
func Aggregate(classifier *status.Classifier, records iter.Seq[testparser.Record], warnings []string) *Result {
	a := NewAggregator(classifier)
	for rec := range records {
		a.Add(rec)
	}
	return a.Result(warnings)
}

func sortedCopy(names []string) []string {
	out := append([]string{}, names...)
	sort.Strings(out)
	return out
}
