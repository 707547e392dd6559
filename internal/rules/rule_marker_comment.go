package rules

import (
	"strings"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// maxMarkerExcerpt bounds the prose excerpt quoted in document marker messages.
const maxMarkerExcerpt = 80

// ruleMarkerComment reports work markers in comments and document prose.
type ruleMarkerComment struct{}

func NewRuleMarkerComment() Rule                         { return &ruleMarkerComment{} }
func (r *ruleMarkerComment) ID() string                  { return RuleMarkerCommentID }
func (r *ruleMarkerComment) Severity() findings.Severity { return findings.SeverityInfo }
func (r *ruleMarkerComment) Description() string {
	return "Comment or prose contains a work marker such as TODO or FIXME"
}

func (r *ruleMarkerComment) Apply(in *Input) ([]findings.Issue, error) {
	re := wordsPattern(in.Config.Markers, `\b`, `\b`)
	if re == nil {
		return nil, nil
	}

	var issues []findings.Issue
	for _, f := range in.Model.Facts {
		switch f.Kind {
		case model.FactComment:
			for _, m := range re.FindAllString(f.Text, -1) {
				issues = append(issues, findings.New(r.ID(), r.Severity(), f.Line, "Found %s comment", strings.ToUpper(m)))
			}
		case model.FactText:
			excerpt := f.Text
			if runes := []rune(excerpt); len(runes) > maxMarkerExcerpt {
				excerpt = string(runes[:maxMarkerExcerpt])
			}
			for _, m := range re.FindAllString(f.Text, -1) {
				issues = append(issues, findings.New(r.ID(), r.Severity(), f.Line, "Found '%s' marker: %s", m, excerpt))
			}
		}
	}
	return issues, nil
}
