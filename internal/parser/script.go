package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/scan-io-git/qgate/internal/model"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
)

var (
	scriptFunctionRe = regexp.MustCompile(
		`(?:^|\s)(?:export\s+)?(?:default\s+)?(?:async\s+)?` +
			`(?:function(?:\s*\*\s*|\s+)([A-Za-z_$][\w$]*)|` +
			`(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*(?::\s*[^=]+)?=>|[A-Za-z_$][\w$]*\s*=>))` +
			`|([A-Za-z_$][\w$]*)\s*\([^)]*\)\s*(?::\s*[^{};=]+)?\{`,
	)
	scriptClassRe   = regexp.MustCompile(`(?:^|\s)class\s+([A-Za-z_$][\w$]*)`)
	scriptCatchRe   = regexp.MustCompile(`\bcatch\s*(?:\([^)]*\))?\s*$`)
	scriptCallRe    = regexp.MustCompile(`([A-Za-z_$][\w$]*(?:\s*\.\s*[A-Za-z_$][\w$]*)*)\s*\(`)
	scriptNumberRe  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	scriptImportRes = []*regexp.Regexp{
		regexp.MustCompile(`^\s*import\s+(?:type\s+)?(?:[\w$*{}\s,]+\s+from\s+)?("")`),
		regexp.MustCompile(`^\s*export\s+(?:type\s+)?(?:\*(?:\s+as\s+\w+)?|\{[^}]*\})\s+from\s+("")`),
		regexp.MustCompile(`\brequire\(\s*("")\s*\)`),
	}

	scriptKeywords = map[string]struct{}{
		"if": {}, "for": {}, "while": {}, "switch": {}, "catch": {}, "with": {},
		"function": {}, "return": {}, "typeof": {}, "new": {}, "else": {}, "do": {},
		"try": {}, "super": {}, "await": {}, "yield": {}, "delete": {}, "void": {},
		"instanceof": {}, "in": {}, "of": {}, "throw": {}, "case": {}, "import": {},
	}

	nodeBuiltins = map[string]struct{}{
		"assert": {}, "async_hooks": {}, "buffer": {}, "child_process": {}, "cluster": {},
		"console": {}, "constants": {}, "crypto": {}, "dgram": {}, "diagnostics_channel": {},
		"dns": {}, "domain": {}, "events": {}, "fs": {}, "http": {}, "http2": {}, "https": {},
		"inspector": {}, "module": {}, "net": {}, "os": {}, "path": {}, "perf_hooks": {},
		"process": {}, "punycode": {}, "querystring": {}, "readline": {}, "repl": {},
		"stream": {}, "string_decoder": {}, "sys": {}, "timers": {}, "tls": {},
		"trace_events": {}, "tty": {}, "url": {}, "util": {}, "v8": {}, "vm": {},
		"wasi": {}, "worker_threads": {}, "zlib": {},
	}
)

// maxPendingLines bounds how far a multi-line signature may look for its body.
const maxPendingLines = 5

// Script is the approximate parser for JavaScript and TypeScript.
type Script struct{}

// NewScript creates the JavaScript/TypeScript parser.
func NewScript() *Script {
	return &Script{}
}

func (s *Script) Name() string { return "script" }

func (s *Script) Strategy() Strategy { return StrategyApproximate }

func (s *Script) Class() model.Class { return model.ClassProgram }

func (s *Script) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}
}

// pendingRegion is a function or class signature waiting for its opening brace.
type pendingRegion struct {
	kind   model.Kind
	name   string
	line   int
	pos    int
	method bool
}

// openBrace is a brace still waiting for its match.
type openBrace struct {
	line    int
	depth   int
	region  *pendingRegion
	catch   bool
	content bool
	node    int // index of the node emitted on close, -1 while open
}

// scriptScan holds the walking state for one artifact.
type scriptScan struct {
	m        *model.Model
	stack    []*openBrace
	pending  *pendingRegion
	prevTail string
	classes  []int // depths of open class bodies
}

// Parse builds the structural model of a JavaScript or TypeScript source.
func (s *Script) Parse(ctx context.Context, src []byte) (*model.Model, error) {
	lines := model.SplitLines(src)
	scan := &scriptScan{m: &model.Model{Class: model.ClassProgram, Naming: model.NamingNone, LineCount: len(lines)}}

	var mk masker
	for i, raw := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo := i + 1
		ml := mk.next(raw)
		scan.line(lineNo, ml)
	}

	switch mk.state {
	case maskBlockComment:
		return nil, errors.NewParseFailure(mk.openedAt, "unterminated block comment")
	case maskTemplate:
		return nil, errors.NewParseFailure(mk.openedAt, "unterminated template literal")
	}
	return scan.m, nil
}

func (sc *scriptScan) line(lineNo int, ml maskedLine) {
	clean := ml.clean()

	for _, text := range ml.comments {
		if text != "" {
			sc.m.Facts = append(sc.m.Facts, model.Fact{Kind: model.FactComment, Line: lineNo, Text: text})
		}
	}

	if ml.startState == maskCode {
		sc.imports(lineNo, clean, ml)
	}
	sc.calls(lineNo, clean)
	sc.numbers(lineNo, clean)

	if sig := sc.signature(lineNo, clean); sig != nil {
		sc.pending = sig
	}

	var openedHere []*openBrace
	for idx := 0; idx < len(ml.code); idx++ {
		c := ml.code[idx]
		switch c {
		case '{':
			if top := sc.top(); top != nil {
				top.content = true
			}
			b := &openBrace{line: lineNo, depth: len(sc.stack) + 1, node: -1}
			prefix := sc.prevTail + " " + clean[:idx]
			b.catch = scriptCatchRe.MatchString(prefix)
			sc.stack = append(sc.stack, b)
			if sc.pending != nil && (sc.pending.line != lineNo || idx >= sc.pending.pos) {
				openedHere = append(openedHere, b)
			}
		case '}':
			if len(sc.stack) == 0 {
				continue
			}
			b := sc.stack[len(sc.stack)-1]
			sc.stack = sc.stack[:len(sc.stack)-1]
			sc.close(b, lineNo)
			if top := sc.top(); top != nil {
				top.content = true
			}
		case ' ', '\t':
		default:
			if top := sc.top(); top != nil {
				top.content = true
			}
		}
	}

	if sc.pending != nil {
		sc.attachPending(lineNo, clean, openedHere)
	}

	if t := strings.TrimSpace(clean); t != "" {
		sc.prevTail = t
	}
}

func (sc *scriptScan) top() *openBrace {
	if len(sc.stack) == 0 {
		return nil
	}
	return sc.stack[len(sc.stack)-1]
}

// attachPending binds the pending signature to the outermost brace opened
// after it that is still open, or records a one-line region.
func (sc *scriptScan) attachPending(lineNo int, clean string, opened []*openBrace) {
	p := sc.pending
	var body *openBrace
	for _, b := range opened {
		if sc.isOpen(b) && (body == nil || b.depth < body.depth) {
			body = b
		}
	}

	switch {
	case body != nil:
		body.region = p
		if p.kind == model.KindClass {
			sc.classes = append(sc.classes, body.depth)
		}
		sc.pending = nil
	case len(opened) > 0:
		// the whole region opened and closed on this line
		first := opened[0]
		if first.node >= 0 {
			sc.m.Nodes[first.node] = regionNode(p, first.depth, lineNo)
		}
		sc.pending = nil
	case strings.Contains(clean[min(len(clean), posOnLine(p, lineNo)):], ";") || lineNo-p.line >= maxPendingLines:
		sc.pending = nil
	}
}

func posOnLine(p *pendingRegion, lineNo int) int {
	if p.line == lineNo {
		return p.pos
	}
	return 0
}

func (sc *scriptScan) isOpen(b *openBrace) bool {
	for _, s := range sc.stack {
		if s == b {
			return true
		}
	}
	return false
}

func (sc *scriptScan) close(b *openBrace, lineNo int) {
	if b.region != nil {
		if b.region.kind == model.KindClass && len(sc.classes) > 0 {
			sc.classes = sc.classes[:len(sc.classes)-1]
		}
		b.node = len(sc.m.Nodes)
		sc.m.Nodes = append(sc.m.Nodes, regionNode(b.region, b.depth, lineNo))
		return
	}
	b.node = len(sc.m.Nodes)
	if b.catch {
		sc.m.Nodes = append(sc.m.Nodes, model.Node{
			Kind:      model.KindHandler,
			Name:      "catch",
			StartLine: b.line,
			EndLine:   lineNo,
			Depth:     b.depth,
			Handler:   &model.HandlerAttrs{Empty: !b.content},
		})
		return
	}
	sc.m.Nodes = append(sc.m.Nodes, model.Node{
		Kind:      model.KindBlock,
		StartLine: b.line,
		EndLine:   lineNo,
		Depth:     b.depth,
	})
}

func regionNode(p *pendingRegion, depth, endLine int) model.Node {
	n := model.Node{
		Kind:      p.kind,
		Name:      p.name,
		StartLine: p.line,
		EndLine:   endLine,
		Depth:     depth,
	}
	if p.kind == model.KindClass {
		n.Scope = &model.ScopeAttrs{Doc: model.DocUnknown}
	} else {
		n.Func = &model.FuncAttrs{Doc: model.DocUnknown, Method: p.method}
	}
	return n
}

// signature finds a function or class declaration on the line.
func (sc *scriptScan) signature(lineNo int, clean string) *pendingRegion {
	if m := scriptClassRe.FindStringSubmatchIndex(clean); m != nil {
		return &pendingRegion{kind: model.KindClass, name: clean[m[2]:m[3]], line: lineNo, pos: m[0]}
	}

	for _, m := range scriptFunctionRe.FindAllStringSubmatchIndex(clean, -1) {
		name := "<anonymous>"
		method := false
		switch {
		case m[2] >= 0:
			name = clean[m[2]:m[3]]
		case m[4] >= 0:
			name = clean[m[4]:m[5]]
		case m[6] >= 0:
			name = clean[m[6]:m[7]]
			if _, kw := scriptKeywords[name]; kw {
				continue
			}
			method = len(sc.classes) > 0 && len(sc.stack) == sc.classes[len(sc.classes)-1]
		}
		return &pendingRegion{kind: model.KindFunction, name: name, line: lineNo, pos: m[0], method: method}
	}
	return nil
}

// imports matches import forms on the masked code, so text inside string
// literals never counts, and reads the specifier back from the literal.
func (sc *scriptScan) imports(lineNo int, clean string, ml maskedLine) {
	for _, re := range scriptImportRes {
		for _, m := range re.FindAllStringSubmatchIndex(clean, -1) {
			module, ok := ml.literalAt(clean, m[2])
			if !ok || module == "" {
				continue
			}
			sc.m.Nodes = append(sc.m.Nodes, model.Node{
				Kind:      model.KindImport,
				Name:      module,
				StartLine: lineNo,
				EndLine:   lineNo,
				Depth:     len(sc.stack),
				Import:    classifyScriptImport(module),
			})
		}
	}
}

func classifyScriptImport(module string) *model.ImportAttrs {
	attrs := &model.ImportAttrs{Module: module, Group: model.GroupThirdParty}
	switch {
	case strings.HasPrefix(module, "."), strings.HasPrefix(module, "/"),
		strings.HasPrefix(module, "@/"), strings.HasPrefix(module, "~/"):
		attrs.Group = model.GroupLocal
		attrs.Relative = strings.HasPrefix(module, ".")
	case strings.HasPrefix(module, "node:"):
		attrs.Group = model.GroupStdlib
	default:
		top := strings.SplitN(module, "/", 2)[0]
		if _, ok := nodeBuiltins[top]; ok {
			attrs.Group = model.GroupStdlib
		}
	}
	return attrs
}

func (sc *scriptScan) calls(lineNo int, clean string) {
	for _, m := range scriptCallRe.FindAllStringSubmatch(clean, -1) {
		callee := strings.Join(strings.Fields(m[1]), "")
		if _, kw := scriptKeywords[callee]; kw {
			continue
		}
		sc.m.Facts = append(sc.m.Facts, model.Fact{Kind: model.FactCall, Line: lineNo, Text: callee})
	}
}

func (sc *scriptScan) numbers(lineNo int, clean string) {
	for _, loc := range scriptNumberRe.FindAllStringIndex(clean, -1) {
		if !isNumberBoundary(clean, loc[0], loc[1]) {
			continue
		}
		sc.m.Facts = append(sc.m.Facts, model.Fact{
			Kind:    model.FactNumber,
			Line:    lineNo,
			Text:    clean[loc[0]:loc[1]],
			Context: clean[:loc[0]],
		})
	}
}

// isNumberBoundary rejects digits that belong to identifiers, member access,
// hex/exponent forms or longer numbers.
func isNumberBoundary(s string, start, end int) bool {
	if start > 0 {
		if c := s[start-1]; c == '.' || c == '$' || isWordByte(c) {
			return false
		}
	}
	if end < len(s) {
		if c := s[end]; c == '.' || isWordByte(c) {
			return false
		}
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
