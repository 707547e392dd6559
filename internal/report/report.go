// Package report aggregates collected issues into per-artifact reports and
// batch totals, and renders them.
package report

import (
	"sort"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
)

// Verdict is the coarse outcome of a report.
type Verdict string

const (
	VerdictPassed             Verdict = "PASSED"
	VerdictPassedWithWarnings Verdict = "PASSED_WITH_WARNINGS"
	VerdictFailed             Verdict = "FAILED"
)

// rank orders verdicts from clean to failed.
func (v Verdict) rank() int {
	switch v {
	case VerdictFailed:
		return 2
	case VerdictPassedWithWarnings:
		return 1
	default:
		return 0
	}
}

// Stats holds issue counts per severity.
type Stats struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Verdict derives the verdict from the severities present.
func (s Stats) Verdict() Verdict {
	switch {
	case s.Errors > 0:
		return VerdictFailed
	case s.Warnings > 0:
		return VerdictPassedWithWarnings
	default:
		return VerdictPassed
	}
}

// Score is the advisory quality score, clamped at zero.
func (s Stats) Score() int {
	return max(0, 100-10*s.Errors-3*s.Warnings-s.Info)
}

// Summary describes the structure of an artifact.
type Summary struct {
	Lines      int `json:"lines"`
	Functions  int `json:"functions"`
	Classes    int `json:"classes"`
	Imports    int `json:"imports"`
	Headings   int `json:"headings"`
	CodeBlocks int `json:"code_blocks"`
	Images     int `json:"images"`
	Links      int `json:"links"`
	Words      int `json:"words"`
}

// Section is one heading of a document with its word count.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Line    int    `json:"line"`
	Words   int    `json:"words"`
}

// Report is the result of analysing one artifact. Issues are kept in line order.
type Report struct {
	Artifact string           `json:"artifact"`
	Stats    Stats            `json:"stats"`
	Verdict  Verdict          `json:"verdict"`
	Score    int              `json:"score"`
	Rules    map[string]int   `json:"rules"`
	Summary  Summary          `json:"summary"`
	Issues   []findings.Issue `json:"issues"`
	Sections []Section        `json:"sections,omitempty"`

	Class model.Class `json:"-"`
}

// New builds the report of one artifact from its model and collected issues.
func New(artifact string, m *model.Model, c *findings.Collector) *Report {
	r := &Report{
		Artifact: artifact,
		Summary:  summarize(m),
		Class:    m.Class,
	}
	if m.Class == model.ClassDocument {
		r.Sections = sections(m)
	}
	r.count(c)
	return r
}

// WithIssues returns a copy of the report that holds only the given issues,
// with counts, verdict and score recomputed.
func (r *Report) WithIssues(issues []findings.Issue) *Report {
	c := findings.NewCollector()
	c.Add(issues...)

	out := *r
	out.count(c)
	return &out
}

func (r *Report) count(c *findings.Collector) {
	counts := c.CountBySeverity()
	r.Stats = Stats{
		Errors:   counts[findings.SeverityError],
		Warnings: counts[findings.SeverityWarning],
		Info:     counts[findings.SeverityInfo],
	}
	r.Verdict = r.Stats.Verdict()
	r.Score = r.Stats.Score()
	r.Rules = c.CountByRule()

	r.Issues = c.ByLine()
	if r.Issues == nil {
		r.Issues = []findings.Issue{}
	}
}

func summarize(m *model.Model) Summary {
	s := Summary{
		Lines:      m.LineCount,
		Functions:  m.Count(model.KindFunction),
		Classes:    m.Count(model.KindClass),
		Imports:    m.Count(model.KindImport),
		Headings:   m.Count(model.KindHeading),
		CodeBlocks: m.Count(model.KindCodeBlock),
		Images:     m.Count(model.KindImage),
		Links:      m.Count(model.KindLink),
	}
	for _, f := range m.FactsOf(model.FactText) {
		s.Words += model.CountWords(f.Text)
	}
	return s
}

func sections(m *model.Model) []Section {
	var out []Section
	for _, h := range m.NodesOf(model.KindHeading) {
		if h.Heading == nil {
			continue
		}
		out = append(out, Section{Heading: h.Name, Level: h.Heading.Level, Line: h.StartLine, Words: h.Heading.Words})
	}
	return out
}

// Skipped records an artifact that could not be read.
type Skipped struct {
	Artifact string `json:"artifact"`
	Reason   string `json:"reason"`
}

// Totals sums every report of a batch.
type Totals struct {
	Artifacts int     `json:"artifacts"`
	Errors    int     `json:"errors"`
	Warnings  int     `json:"warnings"`
	Info      int     `json:"info"`
	Failed    int     `json:"failed"`
	Verdict   Verdict `json:"verdict"`
}

// BatchReport is an ordered set of reports plus totals. It never re-evaluates
// rules, it only sums.
type BatchReport struct {
	Reports []*Report `json:"reports"`
	Skipped []Skipped `json:"skipped"`
	Totals  Totals    `json:"totals"`
}

// NewBatch orders reports and skipped artifacts by artifact id and sums them.
// The result does not depend on the order of the inputs.
func NewBatch(reports []*Report, skipped []Skipped) *BatchReport {
	b := &BatchReport{
		Reports: append([]*Report{}, reports...),
		Skipped: append([]Skipped{}, skipped...),
	}
	sort.SliceStable(b.Reports, func(i, j int) bool { return b.Reports[i].Artifact < b.Reports[j].Artifact })
	sort.SliceStable(b.Skipped, func(i, j int) bool { return b.Skipped[i].Artifact < b.Skipped[j].Artifact })

	b.Totals.Verdict = VerdictPassed
	for _, r := range b.Reports {
		b.Totals.Artifacts++
		b.Totals.Errors += r.Stats.Errors
		b.Totals.Warnings += r.Stats.Warnings
		b.Totals.Info += r.Stats.Info
		if r.Verdict == VerdictFailed {
			b.Totals.Failed++
		}
		if r.Verdict.rank() > b.Totals.Verdict.rank() {
			b.Totals.Verdict = r.Verdict
		}
	}
	return b
}

// ExitCode maps the batch verdict to a process exit status. In strict mode
// warnings fail the run as well.
func (b *BatchReport) ExitCode(strict bool) int {
	switch b.Totals.Verdict {
	case VerdictFailed:
		return errors.ExitFailed
	case VerdictPassedWithWarnings:
		if strict {
			return errors.ExitFailed
		}
	}
	return errors.ExitOK
}
