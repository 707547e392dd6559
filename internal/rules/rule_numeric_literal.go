package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

var importLineRe = regexp.MustCompile(`(?:import|require|from)\s`)

// ruleNumericLiteral reports unexplained numbers: any decimal, or an integer
// at or above the configured minimum. A literal assigned to a safe-context
// name (port, timeout, ...) or sitting on an import line is accepted.
type ruleNumericLiteral struct{}

func NewRuleNumericLiteral() Rule                         { return &ruleNumericLiteral{} }
func (r *ruleNumericLiteral) ID() string                  { return RuleNumericLiteralID }
func (r *ruleNumericLiteral) Severity() findings.Severity { return findings.SeverityInfo }
func (r *ruleNumericLiteral) Description() string {
	return "Numeric literal outside a safe context should be a named constant"
}

func (r *ruleNumericLiteral) Apply(in *Input) ([]findings.Issue, error) {
	safe := wordsPattern(in.Config.SafeNumberContexts, "", `\s*[:=]\s*$`)
	minimum := int64(in.Config.Thresholds.MagicNumberMin)

	var issues []findings.Issue
	for _, f := range in.Model.FactsOf(model.FactNumber) {
		if !magicNumber(f.Text, minimum) {
			continue
		}
		if safe != nil && safe.MatchString(f.Context) {
			continue
		}
		if importLineRe.MatchString(lineAt(in.Lines, f.Line)) {
			continue
		}
		issues = append(issues, findings.New(r.ID(), r.Severity(), f.Line, "Magic number: %s", f.Text))
	}
	return issues, nil
}

// magicNumber reports whether a literal is a decimal or an integer >= minimum.
// Literals that parse as neither are ignored.
func magicNumber(text string, minimum int64) bool {
	clean := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(clean)
	if strings.HasPrefix(lower, "0x") || !strings.ContainsAny(lower, ".e") {
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			// leading zeros are not octal here
			v, err = strconv.ParseInt(clean, 10, 64)
		}
		return err == nil && v >= minimum
	}
	_, err := strconv.ParseFloat(clean, 64)
	return err == nil
}
