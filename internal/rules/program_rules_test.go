package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/qgate/internal/parser"
)

func scriptFunction(lines int) string {
	var b strings.Builder
	b.WriteString("function big() {\n")
	for i := 0; i < lines-2; i++ {
		b.WriteString("  step();\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func TestSizeThreshold(t *testing.T) {
	testCases := []struct {
		name         string
		lines        int
		maxFileLines int
		want         []string
	}{
		{name: "function at threshold", lines: 50, maxFileLines: 300},
		{
			name:         "function over threshold",
			lines:        51,
			maxFileLines: 300,
			want:         []string{"Function 'big' is 51 lines (threshold: 50)"},
		},
		{
			name:         "file over threshold",
			lines:        50,
			maxFileLines: 49,
			want:         []string{"File has 50 lines (threshold: 49)"},
		},
		{name: "file at threshold", lines: 50, maxFileLines: 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := input(t, parser.NewScript(), scriptFunction(tc.lines))
			in.Config.Thresholds.MaxFileLines = tc.maxFileLines

			issues := apply(t, NewRuleSizeThreshold(), in)
			assert.Equal(t, tc.want, messages(issues))
			for _, i := range issues {
				assert.Equal(t, 1, i.Line)
			}
		})
	}
}

func TestMissingDocumentation(t *testing.T) {
	src := `class Public:
    def method(self) -> None:
        """Documented."""

    def _private(self) -> None:
        pass

    def __init__(self) -> None:
        pass


class _Hidden:
    pass
`
	issues := apply(t, NewRuleMissingDocumentation(), input(t, parser.NewPython(), src))
	assert.Equal(t, []string{
		"Module missing docstring",
		"Class 'Public' missing docstring",
		"Function '__init__' missing docstring",
	}, messages(issues))

	js := apply(t, NewRuleMissingDocumentation(), input(t, parser.NewScript(), "function undocumented() {\n}\n"))
	assert.Empty(t, js, "unknown documentation state is not reported")
}

func TestMissingAnnotation(t *testing.T) {
	src := `class Svc:
    def __init__(self, a):
        pass

    def run(self, b: int) -> None:
        pass

    def _helper(self, c):
        pass

    @classmethod
    def build(cls, *args, d=1) -> "Svc":
        pass
`
	issues := apply(t, NewRuleMissingAnnotation(), input(t, parser.NewPython(), src))
	assert.Equal(t, []string{
		"Parameter 'a' in '__init__' missing type hint",
		"Parameter 'd' in 'build' missing type hint",
	}, messages(issues))
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, 12, issues[1].Line)
}

func TestNamingConvention(t *testing.T) {
	src := `MAX_RETRIES = 3
badName = 1


class my_class:
    LOCAL_CONST = 2

    def CamelMethod(self):
        pass


def __dunder__():
    pass
`
	issues := apply(t, NewRuleNamingConvention(), input(t, parser.NewPython(), src))
	assert.Equal(t, []string{
		"Variable 'badName' should use snake_case",
		"Class 'my_class' should use PascalCase",
		"Variable 'LOCAL_CONST' should use snake_case",
		"Function 'CamelMethod' should use snake_case",
	}, messages(issues))

	js := apply(t, NewRuleNamingConvention(), input(t, parser.NewScript(), "function BadName() {\n}\n"))
	assert.Empty(t, js)
}

func TestImportOrdering(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		wantLines []int
	}{
		{
			name: "already ordered",
			src:  "import os\nimport sys\nimport requests\nfrom . import local\n",
		},
		{
			name:      "stdlib after third-party",
			src:       "import os\nimport requests\nimport sys\nfrom . import local\n",
			wantLines: []int{3},
		},
		{
			name:      "third-party after local",
			src:       "from .pkg import thing\nimport requests\n",
			wantLines: []int{2},
		},
		{
			name: "nested imports are ignored",
			src:  "import requests\n\n\ndef lazy():\n    import os\n    return os\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issues := apply(t, NewRuleImportOrdering(), input(t, parser.NewPython(), tc.src))
			var lines []int
			for _, i := range issues {
				lines = append(lines, i.Line)
			}
			assert.Equal(t, tc.wantLines, lines)
		})
	}

	issues := apply(t, NewRuleImportOrdering(), input(t, parser.NewPython(), "import os\nimport requests\nimport sys\n"))
	require.Len(t, issues, 1)
	assert.Equal(t, "Import 'sys' (stdlib) appears after a later group; expected order: stdlib → third-party → local", issues[0].Message)
}

func TestMarkerComment(t *testing.T) {
	src := "# TODO: fix\n# todo lowercase\n# TODOS are not markers\nx = \"FIXME in string\"\n"
	issues := apply(t, NewRuleMarkerComment(), input(t, parser.NewPython(), src))
	assert.Equal(t, []string{"Found TODO comment", "Found TODO comment"}, messages(issues))
	assert.Equal(t, 2, issues[1].Line)

	doc := apply(t, NewRuleMarkerComment(), input(t, parser.NewMarkdown(), "# Plan\n\nSome TBD text\n"))
	assert.Equal(t, []string{"Found 'TBD' marker: Some TBD text"}, messages(doc))
}

func TestDebugResidue(t *testing.T) {
	testCases := []struct {
		name      string
		p         parser.Parser
		src       string
		wantLines []int
	}{
		{
			name:      "call after a string holding a comment marker",
			p:         parser.NewScript(),
			src:       `const s = "// not a real comment"; console.log(s);`,
			wantLines: []int{1},
		},
		{
			name: "call inside a string",
			p:    parser.NewScript(),
			src:  `const s = "console.log(x)";`,
		},
		{
			name: "call inside a comment",
			p:    parser.NewScript(),
			src:  "// console.debug(x)\n",
		},
		{
			name:      "python debugger hooks",
			p:         parser.NewPython(),
			src:       "import pdb\nbreakpoint()\npdb.set_trace()\nprint(\"ok\")\n",
			wantLines: []int{2, 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issues := apply(t, NewRuleDebugResidue(), input(t, tc.p, tc.src))
			var lines []int
			for _, i := range issues {
				lines = append(lines, i.Line)
			}
			assert.Equal(t, tc.wantLines, lines)
		})
	}
}

func TestNestingDepth(t *testing.T) {
	src := `def walk(items):
    for item in items:
        if item:
            while item.next:
                if item.done:
                    break
`
	issues := apply(t, NewRuleNestingDepth(), input(t, parser.NewPython(), src))
	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].Line)
	assert.Equal(t, "Block is nested 4 levels deep (threshold: 3)", issues[0].Message)
}

func TestNumericLiteral(t *testing.T) {
	src := `const timeout = 3000;
const ratio = 0.75;
items[42];
const small = 7;
import x from "./v2"; const n = 99;
const MAX_PORT = 8080;
const retries = 25;
`
	issues := apply(t, NewRuleNumericLiteral(), input(t, parser.NewScript(), src))
	assert.Equal(t, []string{"Magic number: 0.75", "Magic number: 42", "Magic number: 25"}, messages(issues))
	assert.Equal(t, []int{2, 3, 7}, []int{issues[0].Line, issues[1].Line, issues[2].Line})
}

func TestMagicNumber(t *testing.T) {
	testCases := []struct {
		text string
		want bool
	}{
		{text: "19", want: false},
		{text: "20", want: true},
		{text: "0.5", want: true},
		{text: "1e3", want: true},
		{text: "0x1F", want: true},
		{text: "0x10", want: false},
		{text: "1_000", want: true},
		{text: "08", want: false},
		{text: "3j", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, magicNumber(tc.text, 20))
		})
	}
}

func TestEmptyHandler(t *testing.T) {
	src := `try:
    run()
except ValueError:
    pass
except KeyError:
    recover()
`
	issues := apply(t, NewRuleEmptyHandler(), input(t, parser.NewPython(), src))
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Line)
	assert.Equal(t, "Empty except block, errors are silently swallowed", issues[0].Message)

	js := apply(t, NewRuleEmptyHandler(), input(t, parser.NewScript(), "try {\n  run();\n} catch (e) {}\n"))
	assert.Equal(t, []string{"Empty catch block, errors are silently swallowed"}, messages(js))
}

func TestLineLength(t *testing.T) {
	long := "x = '" + strings.Repeat("é", 115) + "'\n"
	exact := "y = '" + strings.Repeat("a", 114) + "'\n"

	issues := apply(t, NewRuleLineLength(), input(t, parser.NewPython(), long+exact))
	assert.Equal(t, []string{"Line is 121 characters (threshold: 120)"}, messages(issues))

	doc := apply(t, NewRuleLineLength(), input(t, parser.NewMarkdown(), "# T\n\n"+strings.Repeat("word ", 60)+"\n"))
	assert.Empty(t, doc)
}
