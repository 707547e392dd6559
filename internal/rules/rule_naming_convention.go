package rules

import (
	"regexp"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

var (
	snakeCaseRe  = regexp.MustCompile(`^_{0,2}[a-z][a-z0-9_]*_{0,2}$`)
	upperCaseRe  = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	pascalCaseRe = regexp.MustCompile(`^_?[A-Z][a-zA-Z0-9]*$`)
)

// ruleNamingConvention applies the snake_case scheme: PascalCase classes,
// snake_case functions and variables, ALL_CAPS allowed for module constants.
// Models without a naming scheme are skipped.
type ruleNamingConvention struct{}

func NewRuleNamingConvention() Rule                         { return &ruleNamingConvention{} }
func (r *ruleNamingConvention) ID() string                  { return RuleNamingConventionID }
func (r *ruleNamingConvention) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleNamingConvention) Description() string {
	return "Identifier casing does not match the convention for its kind"
}

func (r *ruleNamingConvention) Apply(in *Input) ([]findings.Issue, error) {
	if in.Model.Naming != model.NamingSnakeCase {
		return nil, nil
	}

	var issues []findings.Issue
	for _, n := range in.Model.Nodes {
		switch n.Kind {
		case model.KindClass:
			if !pascalCaseRe.MatchString(n.Name) {
				issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Class '%s' should use PascalCase", n.Name))
			}
		case model.KindFunction:
			if !snakeCaseRe.MatchString(n.Name) {
				issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Function '%s' should use snake_case", n.Name))
			}
		case model.KindAssignment:
			if snakeCaseRe.MatchString(n.Name) {
				continue
			}
			if n.Assign != nil && n.Assign.ModuleLevel && upperCaseRe.MatchString(n.Name) {
				continue
			}
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Variable '%s' should use snake_case", n.Name))
		}
	}
	return issues, nil
}
