// Package parser turns raw artifact text into a structural model.
//
// Every artifact family has one Parser. Python source goes through a real
// syntax tree; JavaScript/TypeScript and Markdown use line scanners that
// approximate the structure. Callers only see the Parser contract.
package parser

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scan-io-git/qgate/internal/model"
)

// Strategy tells how faithfully a parser follows the language grammar.
type Strategy int

const (
	StrategyExact Strategy = iota
	StrategyApproximate
)

// String returns the human-readable representation of a Strategy.
func (s Strategy) String() string {
	if s == StrategyExact {
		return "exact"
	}
	return "approximate"
}

// Parser builds a structural model from raw text.
// Parse returns a *errors.ParseFailure when the input is malformed.
type Parser interface {
	Name() string
	Strategy() Strategy
	Class() model.Class
	Extensions() []string
	Parse(ctx context.Context, src []byte) (*model.Model, error)
}

// Registry maps file extensions to parsers.
type Registry struct {
	byExt map[string]Parser
}

// NewRegistry registers parsers by the extensions they declare. Later parsers win on conflicts.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{byExt: make(map[string]Parser)}
	for _, p := range parsers {
		for _, ext := range p.Extensions() {
			r.byExt[strings.ToLower(ext)] = p
		}
	}
	return r
}

// Default returns the registry with every built-in parser.
func Default() *Registry {
	return NewRegistry(NewPython(), NewScript(), NewMarkdown())
}

// ForPath returns the parser responsible for the file extension of path.
func (r *Registry) ForPath(path string) (Parser, bool) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// Extensions returns every registered extension in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
