package rules

import (
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleMissingAnnotation checks recorded signatures of public functions.
// Implicit receivers are not parameters for this purpose and initializers
// need no return annotation. Every issue points at the declaration line.
type ruleMissingAnnotation struct{}

func NewRuleMissingAnnotation() Rule                         { return &ruleMissingAnnotation{} }
func (r *ruleMissingAnnotation) ID() string                  { return RuleMissingAnnotationID }
func (r *ruleMissingAnnotation) Severity() findings.Severity { return findings.SeverityError }
func (r *ruleMissingAnnotation) Description() string {
	return "Public function parameter or return value has no type annotation"
}

func (r *ruleMissingAnnotation) Apply(in *Input) ([]findings.Issue, error) {
	naming := in.Config.Naming
	var issues []findings.Issue

	for _, n := range in.Model.NodesOf(model.KindFunction) {
		if n.Func == nil || n.Func.Signature == nil || !checked(n.Name, naming) {
			continue
		}
		sig := n.Func.Signature
		for _, p := range sig.Params {
			if p.Annotated || contains(naming.Receivers, p.Name) {
				continue
			}
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine,
				"Parameter '%s' in '%s' missing type hint", p.Name, n.Name))
		}
		if !sig.ReturnAnnotated && !n.Func.Initializer {
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine,
				"Function '%s' missing return type annotation", n.Name))
		}
	}
	return issues, nil
}
