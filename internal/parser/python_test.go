package parser

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/qgate/internal/model"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
)

func parsePython(t *testing.T, src string) *model.Model {
	t.Helper()
	m, err := NewPython().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return m
}

func findNode(t *testing.T, m *model.Model, kind model.Kind, name string) model.Node {
	t.Helper()
	for _, n := range m.Nodes {
		if n.Kind == kind && n.Name == name {
			return n
		}
	}
	t.Fatalf("no %s node named %q", kind, name)
	return model.Node{}
}

func TestPythonFunctionSignature(t *testing.T) {
	m := parsePython(t, "def f(x: int):\n    y = x * 2\n    return y\n")

	assert.Equal(t, model.ClassProgram, m.Class)
	assert.Equal(t, model.NamingSnakeCase, m.Naming)
	assert.Equal(t, 3, m.LineCount)

	mod := findNode(t, m, model.KindModule, "<module>")
	assert.Equal(t, model.DocMissing, mod.Scope.Doc)

	fn := findNode(t, m, model.KindFunction, "f")
	assert.Equal(t, 1, fn.StartLine)
	assert.Equal(t, 3, fn.EndLine)
	assert.Equal(t, 1, fn.Depth)
	require.NotNil(t, fn.Func.Signature)
	assert.False(t, fn.Func.Signature.ReturnAnnotated)
	assert.Equal(t, []model.Param{{Name: "x", Annotated: true}}, fn.Func.Signature.Params)
	assert.Equal(t, model.DocMissing, fn.Func.Doc)
	assert.False(t, fn.Func.Method)

	y := findNode(t, m, model.KindAssignment, "y")
	assert.False(t, y.Assign.ModuleLevel)
}

func TestPythonClassesAndDocstrings(t *testing.T) {
	src := `"""Module doc."""
import os
import requests
from . import sibling
from .pkg import thing


class Greeter:
    """Greets."""

    def __init__(self, name: str):
        self.name = name

    def greet(self, *args, loud: bool = False) -> str:
        """Say hello."""
        return self.name
`
	m := parsePython(t, src)

	assert.Equal(t, model.DocPresent, findNode(t, m, model.KindModule, "<module>").Scope.Doc)

	cls := findNode(t, m, model.KindClass, "Greeter")
	assert.Equal(t, model.DocPresent, cls.Scope.Doc)
	assert.Equal(t, 8, cls.StartLine)

	ctor := findNode(t, m, model.KindFunction, "__init__")
	assert.True(t, ctor.Func.Initializer)
	assert.True(t, ctor.Func.Method)
	assert.Equal(t, model.DocMissing, ctor.Func.Doc)
	assert.Equal(t, []model.Param{{Name: "self"}, {Name: "name", Annotated: true}}, ctor.Func.Signature.Params)
	assert.Equal(t, 2, ctor.Depth)

	greet := findNode(t, m, model.KindFunction, "greet")
	assert.True(t, greet.Func.Signature.ReturnAnnotated)
	assert.Equal(t, model.DocPresent, greet.Func.Doc)
	assert.Equal(t, []model.Param{{Name: "self"}, {Name: "loud", Annotated: true}}, greet.Func.Signature.Params)

	var groups []model.ImportGroup
	for _, n := range m.NodesOf(model.KindImport) {
		groups = append(groups, n.Import.Group)
		assert.Equal(t, 0, n.Depth)
	}
	assert.Equal(t, []model.ImportGroup{model.GroupStdlib, model.GroupThirdParty, model.GroupLocal, model.GroupLocal}, groups)
	assert.Empty(t, m.NodesOf(model.KindAssignment), "attribute targets are not recorded")
}

func TestPythonImportForms(t *testing.T) {
	m := parsePython(t, "from __future__ import annotations\nimport os.path, numpy as np\nfrom xml.etree import ElementTree\n")

	var modules []string
	var groups []model.ImportGroup
	for _, n := range m.NodesOf(model.KindImport) {
		modules = append(modules, n.Import.Module)
		groups = append(groups, n.Import.Group)
	}
	assert.Equal(t, []string{"__future__", "os.path", "numpy", "xml.etree"}, modules)
	assert.Equal(t, []model.ImportGroup{model.GroupStdlib, model.GroupStdlib, model.GroupThirdParty, model.GroupStdlib}, groups)
}

func TestPythonSyntaxError(t *testing.T) {
	_, err := NewPython().Parse(context.Background(), []byte("def broken(:\n    pass\n"))
	require.Error(t, err)

	var failure *errors.ParseFailure
	require.True(t, stderrors.As(err, &failure))
	assert.Equal(t, 1, failure.Line)
}

func TestPythonHandlersAndBlocks(t *testing.T) {
	src := `def main():
    try:
        run()
    except ValueError:
        pass
    except KeyError as exc:
        log(exc)
`
	m := parsePython(t, src)

	handlers := m.NodesOf(model.KindHandler)
	require.Len(t, handlers, 2)
	assert.True(t, handlers[0].Handler.Empty)
	assert.Equal(t, 4, handlers[0].StartLine)
	assert.False(t, handlers[1].Handler.Empty)

	blocks := m.NodesOf(model.KindBlock)
	require.Len(t, blocks, 1)
	assert.Equal(t, "try_statement", blocks[0].Name)
	assert.Equal(t, 2, blocks[0].Depth)

	var callees []string
	for _, f := range m.FactsOf(model.FactCall) {
		callees = append(callees, f.Text)
	}
	assert.Equal(t, []string{"run", "log"}, callees)
}

func TestPythonNestingDepth(t *testing.T) {
	src := `def walk(items):
    for item in items:
        if item:
            while item.next:
                item = item.next
`
	m := parsePython(t, src)

	depths := map[string]int{}
	for _, n := range m.NodesOf(model.KindBlock) {
		depths[n.Name] = n.Depth
	}
	assert.Equal(t, map[string]int{"for_statement": 2, "if_statement": 3, "while_statement": 4}, depths)
}

func TestPythonAssignmentsAndFacts(t *testing.T) {
	src := `MAX_SIZE = 10
camelVar = 1
timeout = 30  # TODO tune
ratio = 0.25
label = "TODO inside string"
`
	m := parsePython(t, src)

	assert.True(t, findNode(t, m, model.KindAssignment, "MAX_SIZE").Assign.ModuleLevel)
	assert.True(t, findNode(t, m, model.KindAssignment, "camelVar").Assign.ModuleLevel)

	comments := m.FactsOf(model.FactComment)
	require.Len(t, comments, 1)
	assert.Equal(t, "TODO tune", comments[0].Text)
	assert.Equal(t, 3, comments[0].Line)

	numbers := m.FactsOf(model.FactNumber)
	require.Len(t, numbers, 4)
	assert.Equal(t, "30", numbers[2].Text)
	assert.Equal(t, "timeout = ", numbers[2].Context)
	assert.Equal(t, "0.25", numbers[3].Text)
}

func TestPythonChainedAssignment(t *testing.T) {
	m := parsePython(t, "a = b = 1\n")
	var names []string
	for _, n := range m.NodesOf(model.KindAssignment) {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}
