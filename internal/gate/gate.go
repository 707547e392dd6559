// Package gate evaluates a CEL policy expression against batch totals.
//
// The expression sees the integer variables errors, warnings, info, failed and
// artifacts, plus rules, a map from rule id to issue count. It must evaluate to
// a bool; true means the gate passes.
package gate

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/scan-io-git/qgate/internal/report"
)

// Policy is a compiled gate expression.
type Policy struct {
	expr string
	prg  cel.Program
}

// Compile type-checks expr and prepares it for evaluation.
func Compile(expr string) (*Policy, error) {
	env, err := cel.NewEnv(
		cel.Variable("errors", cel.IntType),
		cel.Variable("warnings", cel.IntType),
		cel.Variable("info", cel.IntType),
		cel.Variable("failed", cel.IntType),
		cel.Variable("artifacts", cel.IntType),
		cel.Variable("rules", cel.MapType(cel.StringType, cel.IntType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid gate policy %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("gate policy %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program construction error: %w", err)
	}
	return &Policy{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Policy) String() string {
	return p.expr
}

// Evaluate runs the policy against the batch. It reports whether the gate passes.
func (p *Policy) Evaluate(b *report.BatchReport) (bool, error) {
	perRule := map[string]int64{}
	for _, r := range b.Reports {
		for id, n := range r.Rules {
			perRule[id] += int64(n)
		}
	}

	out, _, err := p.prg.Eval(map[string]interface{}{
		"errors":    int64(b.Totals.Errors),
		"warnings":  int64(b.Totals.Warnings),
		"info":      int64(b.Totals.Info),
		"failed":    int64(b.Totals.Failed),
		"artifacts": int64(b.Totals.Artifacts),
		"rules":     perRule,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate gate policy %q: %w", p.expr, err)
	}

	passed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("gate policy %q returned %v, not a bool", p.expr, out.Value())
	}
	return passed, nil
}
