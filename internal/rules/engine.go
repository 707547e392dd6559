package rules

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
)

// Engine applies a fixed set of rules to one input at a time.
type Engine struct {
	rules     []Rule
	overrides map[string]findings.Severity
	logger    hclog.Logger
}

// NewEngine creates an engine for the given rules. Overrides replace the
// severity of issues raised by the named rules.
func NewEngine(logger hclog.Logger, overrides map[string]findings.Severity, rules ...Rule) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Engine{
		rules:     append([]Rule{}, rules...),
		overrides: overrides,
		logger:    logger,
	}
}

// Rules returns the rules the engine runs, in order.
func (e *Engine) Rules() []Rule {
	return append([]Rule{}, e.rules...)
}

// Run applies every rule to the input and adds the findings to the collector.
// A rule that fails or panics is reported as one internal issue and does not
// stop the others.
func (e *Engine) Run(in *Input, c *findings.Collector) {
	for _, r := range e.rules {
		issues, err := e.apply(r, in)
		if err != nil {
			e.logger.Warn("rule evaluation failed", "rule", r.ID(), "error", err)
			c.Add(e.override(findings.New(InternalIssueID, findings.SeverityWarning, 0, "%v", err)))
			continue
		}

		sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
		for _, issue := range issues {
			c.Add(e.override(issue))
		}
		e.logger.Trace("rule applied", "rule", r.ID(), "issues", len(issues))
	}
}

func (e *Engine) apply(r Rule, in *Input) (issues []findings.Issue, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			issues = nil
			err = &errors.RuleEvaluationError{RuleID: r.ID(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	issues, err = r.Apply(in)
	if err != nil {
		return nil, &errors.RuleEvaluationError{RuleID: r.ID(), Err: err}
	}
	return issues, nil
}

func (e *Engine) override(issue findings.Issue) findings.Issue {
	if sev, ok := e.overrides[issue.Rule]; ok {
		issue.Severity = sev
	}
	return issue
}
