package rules

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleDanglingReference checks in-document links against heading slugs and
// declared anchors. Repeated headings also answer to "-1", "-2", ... suffixes.
// Links that do not start with '#' are not checked.
type ruleDanglingReference struct{}

func NewRuleDanglingReference() Rule                         { return &ruleDanglingReference{} }
func (r *ruleDanglingReference) ID() string                  { return RuleDanglingReferenceID }
func (r *ruleDanglingReference) Severity() findings.Severity { return findings.SeverityError }
func (r *ruleDanglingReference) Description() string {
	return "Internal link points to no heading or declared anchor"
}

func (r *ruleDanglingReference) Apply(in *Input) ([]findings.Issue, error) {
	targets := anchorTargets(in.Model)

	var issues []findings.Issue
	for _, l := range in.Model.NodesOf(model.KindLink) {
		if l.Ref == nil || !strings.HasPrefix(l.Ref.Target, "#") {
			continue
		}
		target := strings.ToLower(strings.TrimPrefix(l.Ref.Target, "#"))
		if target == "" {
			continue
		}
		if _, ok := targets[target]; !ok {
			issues = append(issues, findings.New(r.ID(), r.Severity(), l.StartLine,
				"Internal link '#%s' does not match any heading or anchor.", target))
		}
	}
	return issues, nil
}

// anchorTargets returns every fragment the document answers to.
func anchorTargets(m *model.Model) map[string]struct{} {
	targets := make(map[string]struct{})
	seen := make(map[string]int)
	for _, n := range m.Nodes {
		switch n.Kind {
		case model.KindHeading:
			if n.Heading == nil {
				continue
			}
			slug := n.Heading.Slug
			if k := seen[slug]; k > 0 {
				targets[fmt.Sprintf("%s-%d", slug, k)] = struct{}{}
			} else {
				targets[slug] = struct{}{}
			}
			seen[slug]++
		case model.KindAnchor:
			if n.Ref != nil {
				targets[strings.ToLower(n.Ref.Target)] = struct{}{}
			}
		}
	}
	return targets
}
