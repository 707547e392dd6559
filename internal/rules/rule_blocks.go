package rules

import (
	"strings"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// ruleUnclosedBlock reports code and comment regions still open at end of
// input, at the line that opened them.
type ruleUnclosedBlock struct{}

func NewRuleUnclosedBlock() Rule                         { return &ruleUnclosedBlock{} }
func (r *ruleUnclosedBlock) ID() string                  { return RuleUnclosedBlockID }
func (r *ruleUnclosedBlock) Severity() findings.Severity { return findings.SeverityError }
func (r *ruleUnclosedBlock) Description() string {
	return "Code block or comment region is never closed"
}

func (r *ruleUnclosedBlock) Apply(in *Input) ([]findings.Issue, error) {
	var issues []findings.Issue
	for _, n := range in.Model.Nodes {
		if n.Block == nil || n.Block.Closed {
			continue
		}
		switch n.Kind {
		case model.KindCodeBlock:
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Unclosed code block (missing closing fence)."))
		case model.KindCommentBlock:
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Unclosed comment (missing closing -->)."))
		}
	}
	return issues, nil
}

// ruleMissingMetadata reports closed code blocks without a language tag.
// Unclosed blocks are left to ruleUnclosedBlock.
type ruleMissingMetadata struct{}

func NewRuleMissingMetadata() Rule                         { return &ruleMissingMetadata{} }
func (r *ruleMissingMetadata) ID() string                  { return RuleMissingMetadataID }
func (r *ruleMissingMetadata) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleMissingMetadata) Description() string {
	return "Fenced code block has no language tag"
}

func (r *ruleMissingMetadata) Apply(in *Input) ([]findings.Issue, error) {
	var issues []findings.Issue
	for _, n := range in.Model.NodesOf(model.KindCodeBlock) {
		if n.Block != nil && n.Block.Closed && n.Block.Lang == "" {
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Code block missing language tag (e.g., ```python)."))
		}
	}
	return issues, nil
}

type ruleMissingAltText struct{}

func NewRuleMissingAltText() Rule                         { return &ruleMissingAltText{} }
func (r *ruleMissingAltText) ID() string                  { return RuleMissingAltTextID }
func (r *ruleMissingAltText) Severity() findings.Severity { return findings.SeverityWarning }
func (r *ruleMissingAltText) Description() string {
	return "Image has no alt text"
}

func (r *ruleMissingAltText) Apply(in *Input) ([]findings.Issue, error) {
	var issues []findings.Issue
	for _, n := range in.Model.NodesOf(model.KindImage) {
		if n.Ref != nil && strings.TrimSpace(n.Ref.Text) == "" {
			issues = append(issues, findings.New(r.ID(), r.Severity(), n.StartLine, "Image missing alt text: %s", n.Ref.Target))
		}
	}
	return issues, nil
}
