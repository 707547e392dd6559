package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/qgate/internal/config"
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
	"github.com/scan-io-git/qgate/internal/parser"
)

func defaultAnalysis() *config.Analysis {
	a := config.Default().Analysis
	return &a
}

// input parses src with p and pairs the model with the default analysis config.
func input(t *testing.T, p parser.Parser, src string) *Input {
	t.Helper()
	m, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return &Input{Model: m, Lines: model.SplitLines([]byte(src)), Config: defaultAnalysis()}
}

func apply(t *testing.T, r Rule, in *Input) []findings.Issue {
	t.Helper()
	issues, err := r.Apply(in)
	require.NoError(t, err)
	for _, i := range issues {
		assert.Equal(t, r.ID(), i.Rule)
		assert.Equal(t, r.Severity(), i.Severity)
	}
	return issues
}

func messages(issues []findings.Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Message)
	}
	return out
}

func TestCatalog(t *testing.T) {
	all := Catalog()
	seen := map[string]bool{}
	for _, r := range all {
		assert.False(t, seen[r.ID()], "duplicate rule id %s", r.ID())
		seen[r.ID()] = true
		assert.NotEmpty(t, r.Description())
	}
	assert.Len(t, IDs(), len(all))
	assert.Equal(t, RuleSizeThresholdID, IDs()[0])
	assert.False(t, seen[ParseIssueID])
	assert.False(t, seen[InternalIssueID])
}

func TestSelect(t *testing.T) {
	testCases := []struct {
		name    string
		enable  []string
		disable []string
		wantIDs []string
		wantErr bool
	}{
		{
			name:    "enable narrows",
			enable:  []string{RuleLineLengthID, RuleSizeThresholdID},
			wantIDs: []string{RuleSizeThresholdID, RuleLineLengthID},
		},
		{
			name:    "disable wins over enable",
			enable:  []string{RuleLineLengthID, RuleSizeThresholdID},
			disable: []string{RuleLineLengthID},
			wantIDs: []string{RuleSizeThresholdID},
		},
		{
			name:    "unknown enable",
			enable:  []string{"no-such-rule"},
			wantErr: true,
		},
		{
			name:    "unknown disable",
			disable: []string{"no-such-rule"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			selected, err := Select(tc.enable, tc.disable)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var ids []string
			for _, r := range selected {
				ids = append(ids, r.ID())
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}

	all, err := Select(nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(Catalog()))
}

func TestValidateOverrides(t *testing.T) {
	assert.NoError(t, ValidateOverrides(map[string]findings.Severity{RuleLineLengthID: findings.SeverityError}))
	assert.NoError(t, ValidateOverrides(map[string]findings.Severity{InternalIssueID: findings.SeverityInfo}))
	assert.Error(t, ValidateOverrides(map[string]findings.Severity{"nope": findings.SeverityInfo}))
}

type stubRule struct {
	id     string
	issues []findings.Issue
	err    error
	panics bool
}

func (s *stubRule) ID() string                  { return s.id }
func (s *stubRule) Description() string         { return "stub" }
func (s *stubRule) Severity() findings.Severity { return findings.SeverityWarning }
func (s *stubRule) Apply(*Input) ([]findings.Issue, error) {
	if s.panics {
		var m map[string]int
		m["boom"]++
	}
	return s.issues, s.err
}

func TestEngineIsolatesFailingRules(t *testing.T) {
	good := &stubRule{id: "good", issues: []findings.Issue{
		findings.New("good", findings.SeverityWarning, 9, "late"),
		findings.New("good", findings.SeverityWarning, 2, "early"),
	}}
	broken := &stubRule{id: "broken", panics: true}
	failing := &stubRule{id: "failing", err: errors.New("bad shape")}

	engine := NewEngine(nil, nil, broken, good, failing)
	c := findings.NewCollector()
	engine.Run(&Input{Model: &model.Model{}, Config: defaultAnalysis()}, c)

	all := c.All()
	require.Len(t, all, 4)
	assert.Equal(t, InternalIssueID, all[0].Rule)
	assert.Contains(t, all[0].Message, `rule "broken" failed`)
	assert.Equal(t, findings.SeverityWarning, all[0].Severity)
	assert.Equal(t, []string{"early", "late"}, []string{all[1].Message, all[2].Message})
	assert.Equal(t, InternalIssueID, all[3].Rule)
	assert.Contains(t, all[3].Message, "bad shape")
}

func TestEngineAppliesSeverityOverrides(t *testing.T) {
	r := &stubRule{id: "noisy", issues: []findings.Issue{findings.New("noisy", findings.SeverityWarning, 1, "x")}}
	engine := NewEngine(nil, map[string]findings.Severity{"noisy": findings.SeverityInfo}, r)

	c := findings.NewCollector()
	engine.Run(&Input{Model: &model.Model{}, Config: defaultAnalysis()}, c)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, findings.SeverityInfo, c.All()[0].Severity)
}

func TestEngineRunsWholeCatalogOnScenario(t *testing.T) {
	in := input(t, parser.NewPython(), "def f(x: int):\n    y = x * 2\n    return y\n")

	c := findings.NewCollector()
	NewEngine(nil, nil, Catalog()...).Run(in, c)

	var annotation []findings.Issue
	for _, i := range c.All() {
		if i.Rule == RuleMissingAnnotationID {
			annotation = append(annotation, i)
		}
	}
	require.Len(t, annotation, 1)
	assert.Equal(t, findings.SeverityError, annotation[0].Severity)
	assert.Equal(t, 1, annotation[0].Line)
	assert.Equal(t, "Function 'f' missing return type annotation", annotation[0].Message)
	assert.Equal(t, 0, c.CountByRule()[RuleNamingConventionID])
}
