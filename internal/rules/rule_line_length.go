package rules

import (
	"unicode/utf8"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleLineLength flags long lines of program source. Document prose is
// wrapped by renderers and is not checked.
type ruleLineLength struct{}

func NewRuleLineLength() Rule                         { return &ruleLineLength{} }
func (r *ruleLineLength) ID() string                  { return RuleLineLengthID }
func (r *ruleLineLength) Severity() findings.Severity { return findings.SeverityInfo }
func (r *ruleLineLength) Description() string {
	return "Line is longer than the configured character threshold"
}

func (r *ruleLineLength) Apply(in *Input) ([]findings.Issue, error) {
	if in.Model.Class != model.ClassProgram {
		return nil, nil
	}

	limit := in.Config.Thresholds.MaxLineLength
	var issues []findings.Issue
	for i, line := range in.Lines {
		if n := utf8.RuneCountInString(line); n > limit {
			issues = append(issues, findings.New(r.ID(), r.Severity(), i+1,
				"Line is %d characters (threshold: %d)", n, limit))
		}
	}
	return issues, nil
}
