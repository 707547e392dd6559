// Package model holds the structural model shared by parsers and rules.
package model

// Kind identifies the type of a structural node.
type Kind int

const (
	// KindUnknown is the zero value and never produced by a parser.
	KindUnknown Kind = iota
	// KindModule is the whole program unit.
	KindModule
	// KindFunction is a function, method or arrow function body.
	KindFunction
	// KindClass is a class definition.
	KindClass
	// KindBlock is a brace or compound-statement block.
	KindBlock
	// KindHeading is a document heading.
	KindHeading
	// KindCodeBlock is a fenced code block inside a document.
	KindCodeBlock
	// KindCommentBlock is a multi-line comment region.
	KindCommentBlock
	// KindImport is a single imported module.
	KindImport
	// KindAssignment is a simple-name assignment target.
	KindAssignment
	// KindHandler is an exception handler (catch/except).
	KindHandler
	// KindImage is an embedded image reference.
	KindImage
	// KindLink is an inline link.
	KindLink
	// KindAnchor is an explicitly declared anchor.
	KindAnchor
)

// String returns the human-readable representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindBlock:
		return "block"
	case KindHeading:
		return "heading"
	case KindCodeBlock:
		return "code-block"
	case KindCommentBlock:
		return "comment-block"
	case KindImport:
		return "import"
	case KindAssignment:
		return "assignment"
	case KindHandler:
		return "handler"
	case KindImage:
		return "image"
	case KindLink:
		return "link"
	case KindAnchor:
		return "anchor"
	default:
		return "unknown"
	}
}

// Class separates program source from prose documents.
type Class int

const (
	ClassProgram Class = iota
	ClassDocument
)

// String returns the human-readable representation of a Class.
func (c Class) String() string {
	if c == ClassDocument {
		return "document"
	}
	return "program"
}

// NamingScheme selects the identifier conventions that apply to a model.
type NamingScheme int

const (
	// NamingNone disables naming checks.
	NamingNone NamingScheme = iota
	// NamingSnakeCase is PascalCase classes with snake_case functions and variables.
	NamingSnakeCase
)

// DocState records whether a region carries leading documentation.
type DocState int

const (
	// DocUnknown means the parser cannot tell.
	DocUnknown DocState = iota
	DocMissing
	DocPresent
)

// ImportGroup is the classification used for import ordering.
// The numeric value is the group's rank.
type ImportGroup int

const (
	GroupStdlib ImportGroup = iota
	GroupThirdParty
	GroupLocal
)

// String returns the human-readable representation of an ImportGroup.
func (g ImportGroup) String() string {
	switch g {
	case GroupStdlib:
		return "stdlib"
	case GroupThirdParty:
		return "third-party"
	default:
		return "local"
	}
}

// Param is a single declared function parameter.
type Param struct {
	Name      string
	Annotated bool
}

// Signature is the typed signature of a function, recorded only by exact parsers.
type Signature struct {
	Params          []Param
	ReturnAnnotated bool
}

// FuncAttrs are the attributes of a KindFunction node.
type FuncAttrs struct {
	Signature   *Signature // nil when the parser does not record annotations
	Doc         DocState
	Method      bool
	Initializer bool
}

// ScopeAttrs are the attributes of KindModule and KindClass nodes.
type ScopeAttrs struct {
	Doc DocState
}

// ImportAttrs are the attributes of a KindImport node.
type ImportAttrs struct {
	Module   string
	Group    ImportGroup
	Relative bool
}

// HeadingAttrs are the attributes of a KindHeading node.
type HeadingAttrs struct {
	Level int
	Slug  string
	Words int // countable words between this heading and the next one
}

// BlockAttrs are the attributes of KindCodeBlock and KindCommentBlock nodes.
type BlockAttrs struct {
	Lang   string
	Closed bool
}

// RefAttrs are the attributes of KindImage, KindLink and KindAnchor nodes.
type RefAttrs struct {
	Target string
	Text   string
}

// AssignAttrs are the attributes of a KindAssignment node.
type AssignAttrs struct {
	ModuleLevel bool
}

// HandlerAttrs are the attributes of a KindHandler node.
type HandlerAttrs struct {
	Empty bool
}

// Node is one named structural region of an artifact.
// Exactly the attribute pointer matching Kind is set.
type Node struct {
	Kind      Kind
	Name      string
	StartLine int
	EndLine   int
	Depth     int

	Func    *FuncAttrs
	Scope   *ScopeAttrs
	Import  *ImportAttrs
	Heading *HeadingAttrs
	Block   *BlockAttrs
	Ref     *RefAttrs
	Assign  *AssignAttrs
	Handler *HandlerAttrs
}

// Lines returns the inclusive line span of the node.
func (n Node) Lines() int {
	return n.EndLine - n.StartLine + 1
}

// FactKind identifies a textual fact.
type FactKind int

const (
	// FactComment is the text of a comment.
	FactComment FactKind = iota + 1
	// FactText is a prose line of a document.
	FactText
	// FactCall is a call site; Text holds the callee.
	FactCall
	// FactNumber is a numeric literal; Context holds the code before it.
	FactNumber
)

// Fact is a free-form textual observation tied to a line.
type Fact struct {
	Kind    FactKind
	Line    int
	Text    string
	Context string
}

// Model is the structural projection of one artifact.
// It is built once by a parser and never modified afterwards.
type Model struct {
	Class     Class
	Naming    NamingScheme
	LineCount int
	Nodes     []Node
	Facts     []Fact
}

// Empty returns a model without nodes that keeps the artifact's class and size.
func Empty(class Class, lineCount int) *Model {
	return &Model{Class: class, LineCount: lineCount}
}

// NodesOf returns the nodes of the given kind in model order.
func (m *Model) NodesOf(kind Kind) []Node {
	var out []Node
	for _, n := range m.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// FactsOf returns the facts of the given kind in model order.
func (m *Model) FactsOf(kind FactKind) []Fact {
	var out []Fact
	for _, f := range m.Facts {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Count returns the number of nodes of the given kind.
func (m *Model) Count(kind Kind) int {
	c := 0
	for _, n := range m.Nodes {
		if n.Kind == kind {
			c++
		}
	}
	return c
}
