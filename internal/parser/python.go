package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/scan-io-git/qgate/internal/model"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
)

// compound statements that open a nested block
var pyBlockTypes = map[string]struct{}{
	"if_statement":    {},
	"for_statement":   {},
	"while_statement": {},
	"with_statement":  {},
	"try_statement":   {},
	"match_statement": {},
}

// Python is the exact parser for Python source, backed by tree-sitter.
type Python struct{}

// NewPython creates the Python parser.
func NewPython() *Python {
	return &Python{}
}

func (p *Python) Name() string { return "python" }

func (p *Python) Strategy() Strategy { return StrategyExact }

func (p *Python) Class() model.Class { return model.ClassProgram }

func (p *Python) Extensions() []string { return []string{".py"} }

// pyScope describes where a node sits.
type pyScope struct {
	depth   int
	inClass bool
	inFunc  bool
}

type pyWalker struct {
	src   []byte
	lines []string
	m     *model.Model
}

// Parse builds the structural model of Python source. A syntax tree holding
// ERROR or MISSING nodes is reported as a ParseFailure.
func (p *Python) Parse(ctx context.Context, src []byte) (*model.Model, error) {
	lines := model.SplitLines(src)

	ps := sitter.NewParser()
	defer ps.Close()
	ps.SetLanguage(python.GetLanguage())

	tree, err := ps.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxFailure(root)
	}

	w := &pyWalker{
		src:   src,
		lines: lines,
		m:     &model.Model{Class: model.ClassProgram, Naming: model.NamingSnakeCase, LineCount: len(lines)},
	}
	w.m.Nodes = append(w.m.Nodes, model.Node{
		Kind:      model.KindModule,
		Name:      "<module>",
		StartLine: 1,
		EndLine:   max(1, len(lines)),
		Scope:     &model.ScopeAttrs{Doc: pyDocState(root)},
	})
	w.walk(root, pyScope{})
	return w.m, nil
}

func syntaxFailure(root *sitter.Node) error {
	bad := firstErrorNode(root)
	if bad == nil {
		return errors.NewParseFailure(1, "syntax error")
	}
	line := int(bad.StartPoint().Row) + 1
	if bad.IsMissing() {
		return errors.NewParseFailure(line, "syntax error: missing %q", bad.Type())
	}
	return errors.NewParseFailure(line, "syntax error")
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !(c.HasError() || c.IsMissing()) {
			continue
		}
		if bad := firstErrorNode(c); bad != nil {
			return bad
		}
	}
	return nil
}

func (w *pyWalker) walk(n *sitter.Node, s pyScope) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c != nil {
			w.visit(c, s)
		}
	}
}

func (w *pyWalker) visit(n *sitter.Node, s pyScope) {
	switch t := n.Type(); t {
	case "function_definition":
		w.function(n, s)
	case "class_definition":
		w.class(n, s)
	case "import_statement", "import_from_statement", "future_import_statement":
		w.imports(n, s)
	case "except_clause", "except_group_clause":
		w.handler(n, s)
		w.walk(n, s)
	case "assignment":
		w.assignment(n, s)
		w.walk(n, s)
	case "comment":
		w.fact(model.FactComment, n, strings.TrimSpace(strings.TrimPrefix(n.Content(w.src), "#")))
	case "call":
		if fn := n.ChildByFieldName("function"); fn != nil {
			w.fact(model.FactCall, n, strings.Join(strings.Fields(fn.Content(w.src)), ""))
		}
		w.walk(n, s)
	case "integer", "float":
		w.number(n)
	case "string", "concatenated_string":
		// literal text is not code
	default:
		if _, ok := pyBlockTypes[t]; ok {
			w.m.Nodes = append(w.m.Nodes, w.span(model.KindBlock, t, n, s.depth+1))
			w.walk(n, pyScope{depth: s.depth + 1, inClass: false, inFunc: s.inFunc})
			return
		}
		w.walk(n, s)
	}
}

func (w *pyWalker) span(kind model.Kind, name string, n *sitter.Node, depth int) model.Node {
	return model.Node{
		Kind:      kind,
		Name:      name,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		Depth:     depth,
	}
}

func (w *pyWalker) function(n *sitter.Node, s pyScope) {
	name := w.text(n.ChildByFieldName("name"))
	sig := &model.Signature{ReturnAnnotated: n.ChildByFieldName("return_type") != nil}

	params := n.ChildByFieldName("parameters")
	if params != nil {
		sig.Params = w.params(params)
	}

	body := n.ChildByFieldName("body")
	node := w.span(model.KindFunction, name, n, s.depth+1)
	node.Func = &model.FuncAttrs{
		Signature:   sig,
		Doc:         pyDocState(body),
		Method:      s.inClass,
		Initializer: name == "__init__",
	}
	w.m.Nodes = append(w.m.Nodes, node)

	inner := pyScope{depth: s.depth + 1, inFunc: true}
	if params != nil {
		w.walk(params, inner)
	}
	if body != nil {
		w.walk(body, inner)
	}
}

func (w *pyWalker) params(params *sitter.Node) []model.Param {
	var out []model.Param
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			out = append(out, model.Param{Name: w.text(p)})
		case "default_parameter":
			out = append(out, model.Param{Name: w.text(p.ChildByFieldName("name"))})
		case "typed_default_parameter":
			out = append(out, model.Param{Name: w.text(p.ChildByFieldName("name")), Annotated: true})
		case "typed_parameter":
			// *args: T and **kwargs: T are splats and not recorded
			if first := p.NamedChild(0); first != nil && first.Type() == "identifier" {
				out = append(out, model.Param{Name: w.text(first), Annotated: true})
			}
		}
	}
	return out
}

func (w *pyWalker) class(n *sitter.Node, s pyScope) {
	name := w.text(n.ChildByFieldName("name"))
	body := n.ChildByFieldName("body")

	node := w.span(model.KindClass, name, n, s.depth+1)
	node.Scope = &model.ScopeAttrs{Doc: pyDocState(body)}
	w.m.Nodes = append(w.m.Nodes, node)

	if sup := n.ChildByFieldName("superclasses"); sup != nil {
		w.walk(sup, s)
	}
	if body != nil {
		w.walk(body, pyScope{depth: s.depth + 1, inClass: true})
	}
}

func (w *pyWalker) imports(n *sitter.Node, s pyScope) {
	add := func(module string, group model.ImportGroup, relative bool) {
		node := w.span(model.KindImport, module, n, s.depth)
		node.Import = &model.ImportAttrs{Module: module, Group: group, Relative: relative}
		w.m.Nodes = append(w.m.Nodes, node)
	}

	switch n.Type() {
	case "future_import_statement":
		add("__future__", model.GroupStdlib, false)
	case "import_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "dotted_name":
				module := w.text(c)
				add(module, classifyPythonModule(module), false)
			case "aliased_import":
				module := w.text(c.ChildByFieldName("name"))
				add(module, classifyPythonModule(module), false)
			}
		}
	case "import_from_statement":
		mod := n.ChildByFieldName("module_name")
		if mod == nil {
			return
		}
		module := w.text(mod)
		if mod.Type() == "relative_import" {
			add(module, model.GroupLocal, true)
			return
		}
		add(module, classifyPythonModule(module), false)
	}
}

func classifyPythonModule(module string) model.ImportGroup {
	top := strings.SplitN(module, ".", 2)[0]
	if _, ok := pythonStdlib[top]; ok {
		return model.GroupStdlib
	}
	return model.GroupThirdParty
}

func (w *pyWalker) assignment(n *sitter.Node, s pyScope) {
	left := n.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	node := w.span(model.KindAssignment, w.text(left), n, s.depth)
	node.EndLine = node.StartLine
	node.Assign = &model.AssignAttrs{ModuleLevel: !s.inClass && !s.inFunc}
	w.m.Nodes = append(w.m.Nodes, node)
}

func (w *pyWalker) handler(n *sitter.Node, s pyScope) {
	empty := true
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "block" {
			continue
		}
		empty = pyBlockIsEmpty(c)
	}
	node := w.span(model.KindHandler, "except", n, s.depth)
	node.Handler = &model.HandlerAttrs{Empty: empty}
	w.m.Nodes = append(w.m.Nodes, node)
}

// pyBlockIsEmpty reports whether a block holds nothing but pass or ... statements.
func pyBlockIsEmpty(block *sitter.Node) bool {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		c := block.NamedChild(i)
		switch c.Type() {
		case "comment", "pass_statement":
			continue
		case "expression_statement":
			if c.NamedChildCount() == 1 && c.NamedChild(0).Type() == "ellipsis" {
				continue
			}
		}
		return false
	}
	return true
}

func (w *pyWalker) number(n *sitter.Node) {
	row := int(n.StartPoint().Row)
	col := int(n.StartPoint().Column)
	prefix := ""
	if row < len(w.lines) && col <= len(w.lines[row]) {
		prefix = w.lines[row][:col]
	}
	w.m.Facts = append(w.m.Facts, model.Fact{
		Kind:    model.FactNumber,
		Line:    row + 1,
		Text:    n.Content(w.src),
		Context: prefix,
	})
}

func (w *pyWalker) fact(kind model.FactKind, n *sitter.Node, text string) {
	w.m.Facts = append(w.m.Facts, model.Fact{Kind: kind, Line: int(n.StartPoint().Row) + 1, Text: text})
}

func (w *pyWalker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

// pyDocState inspects the first statement of a module or block for a docstring.
func pyDocState(n *sitter.Node) model.DocState {
	if n == nil {
		return model.DocMissing
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		if c.Type() == "expression_statement" && c.NamedChildCount() > 0 {
			switch c.NamedChild(0).Type() {
			case "string", "concatenated_string":
				return model.DocPresent
			}
		}
		return model.DocMissing
	}
	return model.DocMissing
}
