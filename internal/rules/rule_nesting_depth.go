package rules

import (
	"fmt"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleNestingDepth flags the outermost region nested one level past the
// threshold. Anything deeper sits inside a region that is already reported.
// Headings nest by level: the first heading deeper than the threshold under
// each shallower heading is reported.
type ruleNestingDepth struct{}

func NewRuleNestingDepth() Rule                         { return &ruleNestingDepth{} }
func (r *ruleNestingDepth) ID() string                  { return RuleNestingDepthID }
func (r *ruleNestingDepth) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleNestingDepth) Description() string {
	return "Code or headings are nested deeper than the configured threshold"
}

func (r *ruleNestingDepth) Apply(in *Input) ([]findings.Issue, error) {
	limit := in.Config.Thresholds.MaxNestingDepth
	var issues []findings.Issue
	headingReported := false

	for _, n := range in.Model.Nodes {
		var what string
		switch n.Kind {
		case model.KindHeading:
			if n.Depth <= limit {
				headingReported = false
				continue
			}
			if headingReported {
				continue
			}
			headingReported = true
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine,
				"Heading '%s' is nested %d levels deep (threshold: %d)", n.Name, n.Depth, limit))
			continue
		case model.KindFunction:
			what = fmt.Sprintf("Function '%s'", n.Name)
		case model.KindClass:
			what = fmt.Sprintf("Class '%s'", n.Name)
		case model.KindBlock:
			what = "Block"
		default:
			continue
		}
		if n.Depth != limit+1 {
			continue
		}
		issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine,
			"%s is nested %d levels deep (threshold: %d)", what, n.Depth, limit))
	}
	return issues, nil
}
