package rules

import (
	"sort"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleImportOrdering scans top-level imports in file order and flags every
// import whose group ranks below the highest group already seen.
type ruleImportOrdering struct{}

func NewRuleImportOrdering() Rule                         { return &ruleImportOrdering{} }
func (r *ruleImportOrdering) ID() string                  { return RuleImportOrderingID }
func (r *ruleImportOrdering) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleImportOrdering) Description() string {
	return "Imports are not grouped as stdlib, then third-party, then local"
}

func (r *ruleImportOrdering) Apply(in *Input) ([]findings.Issue, error) {
	var imports []model.Node
	for _, n := range in.Model.NodesOf(model.KindImport) {
		if n.Depth == 0 && n.Import != nil {
			imports = append(imports, n)
		}
	}
	sort.SliceStable(imports, func(i, j int) bool { return imports[i].StartLine < imports[j].StartLine })

	var issues []findings.Issue
	highest := model.GroupStdlib
	for _, n := range imports {
		group := n.Import.Group
		if group < highest {
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine,
				"Import '%s' (%s) appears after a later group; expected order: stdlib → third-party → local",
				n.Import.Module, group))
			continue
		}
		highest = group
	}
	return issues, nil
}
