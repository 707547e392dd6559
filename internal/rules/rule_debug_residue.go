package rules

import (
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleDebugResidue flags calls to configured debug facilities. Call facts
// never come from comments or string literals.
type ruleDebugResidue struct{}

func NewRuleDebugResidue() Rule                         { return &ruleDebugResidue{} }
func (r *ruleDebugResidue) ID() string                  { return RuleDebugResidueID }
func (r *ruleDebugResidue) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleDebugResidue) Description() string {
	return "Debug or trace output call left in code"
}

func (r *ruleDebugResidue) Apply(in *Input) ([]findings.Issue, error) {
	var issues []findings.Issue
	for _, f := range in.Model.FactsOf(model.FactCall) {
		if contains(in.Config.DebugCalls, f.Text) {
			issues = append(issues, findings.New(r.ID(), r.Severity(), f.Line, "Debug call '%s' left in code", f.Text))
		}
	}
	return issues, nil
}
