// Package baseline suppresses issues that were already accepted in an earlier
// run, so a gate only fails on what is new.
package baseline

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/report"
	"github.com/scan-io-git/qgate/pkg/issuecorrelation"
	"github.com/scan-io-git/qgate/pkg/shared/files"
)

// Baseline holds the issues of a stored JSON report.
type Baseline struct {
	known []issuecorrelation.IssueMetadata
}

// Load reads a JSON report written by a previous run.
func Load(path string) (*Baseline, error) {
	if err := files.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid baseline %q: %w", path, err)
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline %q: %w", path, err)
	}
	b, err := report.ReadJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid baseline %q: %w", path, err)
	}
	return FromBatch(b), nil
}

// FromBatch uses the issues of b as the accepted set.
func FromBatch(b *report.BatchReport) *Baseline {
	bl := &Baseline{}
	for _, r := range b.Reports {
		for _, issue := range r.Issues {
			bl.known = append(bl.known, issuecorrelation.FromIssue("", r.Artifact, issue))
		}
	}
	return bl
}

// Len returns the number of accepted issues.
func (bl *Baseline) Len() int {
	return len(bl.known)
}

// Apply returns a copy of b without the issues that correlate to accepted
// ones, with every report and the totals recounted, and the number of
// suppressed issues.
func (bl *Baseline) Apply(b *report.BatchReport, logger hclog.Logger) (*report.BatchReport, int) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var current []issuecorrelation.IssueMetadata
	for ri, r := range b.Reports {
		for ii, issue := range r.Issues {
			current = append(current, issuecorrelation.FromIssue(issueID(ri, ii), r.Artifact, issue))
		}
	}

	c := issuecorrelation.NewCorrelator(current, bl.known)
	c.Process()

	fresh := make(map[string]struct{})
	for _, n := range c.UnmatchedNew() {
		fresh[n.IssueID] = struct{}{}
	}
	logger.Debug("baseline correlated", "current", len(current), "accepted", len(bl.known), "resolved", len(c.UnmatchedKnown()))

	reports := make([]*report.Report, 0, len(b.Reports))
	for ri, r := range b.Reports {
		var kept []findings.Issue
		for ii, issue := range r.Issues {
			if _, ok := fresh[issueID(ri, ii)]; ok {
				kept = append(kept, issue)
			}
		}
		reports = append(reports, r.WithIssues(kept))
	}

	return report.NewBatch(reports, b.Skipped), len(current) - len(fresh)
}

func issueID(reportIdx, issueIdx int) string {
	return strconv.Itoa(reportIdx) + ":" + strconv.Itoa(issueIdx)
}
