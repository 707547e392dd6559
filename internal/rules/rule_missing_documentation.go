package rules

import (
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleMissingDocumentation flags modules, classes and public functions whose
// documentation state is known to be missing. Unknown states are skipped.
type ruleMissingDocumentation struct{}

func NewRuleMissingDocumentation() Rule                         { return &ruleMissingDocumentation{} }
func (r *ruleMissingDocumentation) ID() string                  { return RuleMissingDocumentationID }
func (r *ruleMissingDocumentation) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleMissingDocumentation) Description() string {
	return "Module, class or public function has no documentation string"
}

func (r *ruleMissingDocumentation) Apply(in *Input) ([]findings.Issue, error) {
	naming := in.Config.Naming
	var issues []findings.Issue

	for _, n := range in.Model.Nodes {
		switch n.Kind {
		case model.KindModule:
			if n.Scope != nil && n.Scope.Doc == model.DocMissing {
				issues = append(issues, findings.New(r.ID(), r.Severity(), 1, "Module missing docstring"))
			}
		case model.KindClass:
			if n.Scope != nil && n.Scope.Doc == model.DocMissing && checked(n.Name, naming) {
				issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Class '%s' missing docstring", n.Name))
			}
		case model.KindFunction:
			if n.Func != nil && n.Func.Doc == model.DocMissing && checked(n.Name, naming) {
				issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Function '%s' missing docstring", n.Name))
			}
		}
	}
	return issues, nil
}
