package rules

import (
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleSizeThreshold flags artifacts and functions longer than their thresholds.
// The two thresholds are independent; a span of exactly the threshold passes.
type ruleSizeThreshold struct{}

func NewRuleSizeThreshold() Rule                         { return &ruleSizeThreshold{} }
func (r *ruleSizeThreshold) ID() string                  { return RuleSizeThresholdID }
func (r *ruleSizeThreshold) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleSizeThreshold) Description() string {
	return "File or function is longer than the configured line threshold"
}

func (r *ruleSizeThreshold) Apply(in *Input) ([]findings.Issue, error) {
	t := in.Config.Thresholds
	var issues []findings.Issue

	if in.Model.LineCount > t.MaxFileLines {
		issues = append(issues, findings.New(r.ID(), r.Severity(), 1,
			"File has %d lines (threshold: %d)", in.Model.LineCount, t.MaxFileLines))
	}

	for _, n := range in.Model.Nodes {
		if n.Kind != model.KindFunction {
			continue
		}
		if length := n.Lines(); length > t.MaxFunctionLines {
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine,
				"Function '%s' is %d lines (threshold: %d)", n.Name, length, t.MaxFunctionLines))
		}
	}
	return issues, nil
}
