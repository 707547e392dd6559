// Package sarif renders quality reports as SARIF 2.1.0 logs.
package sarif

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/qgate/internal/ci"
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/report"
	"github.com/scan-io-git/qgate/internal/rules"
)

const (
	ToolName           = "qgate"
	ToolInformationURI = "https://github.com/scan-io-git/qgate"
	fingerprintKey     = "qgate/v1"
)

var levelOrder = map[string]int{
	"error":   0,
	"warning": 1,
	"note":    2,
	"none":    3,
}

// Report wraps a SARIF log built from a batch of quality reports.
type Report struct {
	*sarif.Report
	logger hclog.Logger
}

// FromBatch converts a batch into a single-run SARIF log. Every catalog rule is
// declared as a reporting descriptor; the parse and internal pseudo-rules are
// declared when they occur.
func FromBatch(b *report.BatchReport, toolVersion string, logger hclog.Logger) (*Report, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, ToolInformationURI)
	if toolVersion != "" {
		run.Tool.Driver.WithVersion(toolVersion)
	}
	for _, r := range rules.Catalog() {
		run.AddRule(r.ID()).
			WithDescription(r.Description()).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: Level(r.Severity())})
	}

	for _, rep := range b.Reports {
		for _, issue := range rep.Issues {
			switch issue.Rule {
			case rules.ParseIssueID:
				run.AddRule(issue.Rule).WithDescription("Artifact could not be parsed")
			case rules.InternalIssueID:
				run.AddRule(issue.Rule).WithDescription("Rule failed while evaluating the artifact")
			}
			run.AddResult(newResult(rep.Artifact, issue))
		}
		logger.Trace("converted report", "artifact", rep.Artifact, "issues", len(rep.Issues))
	}

	log.AddRun(run)
	return &Report{Report: log, logger: logger}, nil
}

func newResult(artifact string, issue findings.Issue) *sarif.Result {
	physical := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithUri(artifact))
	// line 0 is the whole artifact and has no region
	if issue.Line > 0 {
		physical.WithRegion(sarif.NewRegion().WithStartLine(issue.Line))
	}

	result := sarif.NewRuleResult(issue.Rule).
		WithMessage(sarif.NewTextMessage(issue.Message)).
		WithLevel(Level(issue.Severity)).
		WithLocations([]*sarif.Location{sarif.NewLocation().WithPhysicalLocation(physical)})
	result.PartialFingerprints = map[string]interface{}{
		fingerprintKey: fingerprint(artifact, issue),
	}
	return result
}

// AddProvenance records the analysed revision on every run. Environments
// without a repository URL are ignored.
func (r Report) AddProvenance(env ci.Environment) {
	if env.RepositoryURL == "" {
		return
	}
	for _, run := range r.Runs {
		details := sarif.NewVersionControlDetails().WithRepositoryURI(env.RepositoryURL)
		if env.CommitHash != "" {
			details.WithRevisionID(env.CommitHash)
		}
		if env.ReferenceName != "" {
			details.WithBranch(env.ReferenceName)
		}
		run.AddVersionControlProvenance(details)
	}
	r.logger.Debug("added version control provenance", "ci", env.Kind.String(), "repository", env.RepositoryURL, "revision", env.CommitHash)
}

// Level maps an issue severity to a SARIF result level.
func Level(s findings.Severity) string {
	switch s {
	case findings.SeverityError:
		return "error"
	case findings.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// CollectSeverityInfo counts results per SARIF level, plus the total.
func (r Report) CollectSeverityInfo() map[string]int {
	info := map[string]int{
		"error":   0,
		"warning": 0,
		"note":    0,
		"total":   0,
	}
	for _, run := range r.Runs {
		for _, result := range run.Results {
			if result.Level != nil {
				info[*result.Level]++
			}
			info["total"]++
		}
	}
	return info
}

// SortResultsByLevel orders results error, warning, note, keeping the
// artifact and line order within a level.
func (r Report) SortResultsByLevel() {
	for _, run := range r.Runs {
		sort.SliceStable(run.Results, func(i, j int) bool {
			return levelOrder[levelOf(run.Results[i])] < levelOrder[levelOf(run.Results[j])]
		})
	}
}

func levelOf(result *sarif.Result) string {
	if result.Level == nil {
		return "none"
	}
	return *result.Level
}

// Write renders the log as indented JSON.
func (r Report) Write(w io.Writer) error {
	r.logger.Debug("writing SARIF report", "results", r.CollectSeverityInfo()["total"])
	return r.PrettyWrite(w)
}

// fingerprint identifies an issue independently of its position in the run.
func fingerprint(artifact string, issue findings.Issue) string {
	hash := md5.New()
	fmt.Fprintf(hash, "%s|%s|%d|%s", artifact, issue.Rule, issue.Line, issue.Message)
	return hex.EncodeToString(hash.Sum(nil))
}
