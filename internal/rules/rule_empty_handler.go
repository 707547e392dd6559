package rules

import (
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

type ruleEmptyHandler struct{}

func NewRuleEmptyHandler() Rule                         { return &ruleEmptyHandler{} }
func (r *ruleEmptyHandler) ID() string                  { return RuleEmptyHandlerID }
func (r *ruleEmptyHandler) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleEmptyHandler) Description() string {
	return "Error handler has no body and swallows errors"
}

func (r *ruleEmptyHandler) Apply(in *Input) ([]findings.Issue, error) {
	var issues []findings.Issue
	for _, n := range in.Model.NodesOf(model.KindHandler) {
		if n.Handler != nil && n.Handler.Empty {
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine,
				"Empty %s block, errors are silently swallowed", n.Name))
		}
	}
	return issues, nil
}
