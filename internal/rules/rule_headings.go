package rules

import (
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleHierarchySkip flags a heading more than one level below the previous one.
type ruleHierarchySkip struct{}

func NewRuleHierarchySkip() Rule                         { return &ruleHierarchySkip{} }
func (r *ruleHierarchySkip) ID() string                  { return RuleHierarchySkipID }
func (r *ruleHierarchySkip) Severity() findings.Severity { return findings.SeverityError }
func (r *ruleHierarchySkip) Description() string {
	return "Heading level jumps by more than one from the previous heading"
}

func (r *ruleHierarchySkip) Apply(in *Input) ([]findings.Issue, error) {
	var issues []findings.Issue
	prev := 0
	for _, h := range in.Model.NodesOf(model.KindHeading) {
		if h.Heading == nil {
			continue
		}
		level := h.Heading.Level
		if prev > 0 && level > prev+1 {
			issues = append(issues, findings.New(r.ID(), r.Severity(), h.StartLine,
				"Heading level skipped: H%d -> H%d ('%s'). Expected H%d or lower.", prev, level, h.Name, prev+1))
		}
		prev = level
	}
	return issues, nil
}

// ruleEmptySection flags headings whose section holds no countable words.
type ruleEmptySection struct{}

func NewRuleEmptySection() Rule                         { return &ruleEmptySection{} }
func (r *ruleEmptySection) ID() string                  { return RuleEmptySectionID }
func (r *ruleEmptySection) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleEmptySection) Description() string {
	return "Section between two headings has no content"
}

func (r *ruleEmptySection) Apply(in *Input) ([]findings.Issue, error) {
	var issues []findings.Issue
	for _, h := range in.Model.NodesOf(model.KindHeading) {
		if h.Heading != nil && h.Heading.Words == 0 {
			issues = append(issues, findings.New(r.ID(), r.Severity(), h.StartLine,
				"Section '%s' appears to have no content.", h.Name))
		}
	}
	return issues, nil
}

// ruleMissingHeadings flags documents without any heading.
type ruleMissingHeadings struct{}

func NewRuleMissingHeadings() Rule                         { return &ruleMissingHeadings{} }
func (r *ruleMissingHeadings) ID() string                  { return RuleMissingHeadingsID }
func (r *ruleMissingHeadings) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleMissingHeadings) Description() string {
	return "Document has no headings"
}

func (r *ruleMissingHeadings) Apply(in *Input) ([]findings.Issue, error) {
	if in.Model.Class != model.ClassDocument || in.Model.Count(model.KindHeading) > 0 {
		return nil, nil
	}
	return []findings.Issue{findings.New(r.ID(), r.Severity(), 1, "Document has no headings.")}, nil
}
