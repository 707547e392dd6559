package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	testCases := []struct {
		kind Kind
		want string
	}{
		{KindModule, "module"},
		{KindFunction, "function"},
		{KindCodeBlock, "code-block"},
		{KindCommentBlock, "comment-block"},
		{KindAnchor, "anchor"},
		{KindUnknown, "unknown"},
		{Kind(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.String())
		})
	}
}

func TestSplitLines(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want []string
	}{
		{name: "Empty", src: "", want: nil},
		{name: "Trailing newline", src: "a\nb\n", want: []string{"a", "b"}},
		{name: "No trailing newline", src: "a\nb", want: []string{"a", "b"}},
		{name: "CRLF", src: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "Blank lines kept", src: "a\n\n\nb\n", want: []string{"a", "", "", "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitLines([]byte(tc.src)))
		})
	}
}

func TestSlugify(t *testing.T) {
	testCases := []struct {
		text string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"  API Reference  ", "api-reference"},
		{"What's new?", "whats-new"},
		{"A & B", "a-b"},
		{"snake_case and-hyphen", "snake_case-and-hyphen"},
		{"Ünïcode Héading", "ünïcode-héading"},
		{"v1.2 Release", "v12-release"},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.text))
		})
	}
}

func TestSlugifyIsStable(t *testing.T) {
	for _, text := range []string{"Install", "Hello, World!", "Multi   Space  Title", "Already-slugged"} {
		slug := Slugify(text)
		assert.Equal(t, slug, Slugify(slug), "slug of a slug must not change for %q", text)
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("## ** __ [] () > |"))
	assert.Equal(t, 2, CountWords("Run `go test ./...` now"))
	assert.Equal(t, 4, CountWords("see [the docs](x)"))
}

func TestModelQueries(t *testing.T) {
	m := &Model{
		Nodes: []Node{
			{Kind: KindFunction, Name: "a", StartLine: 1, EndLine: 3},
			{Kind: KindClass, Name: "B", StartLine: 5, EndLine: 9},
			{Kind: KindFunction, Name: "c", StartLine: 6, EndLine: 8},
		},
		Facts: []Fact{{Kind: FactComment, Line: 2, Text: "note"}},
	}

	assert.Equal(t, 2, m.Count(KindFunction))
	assert.Len(t, m.NodesOf(KindClass), 1)
	assert.Equal(t, 3, m.NodesOf(KindFunction)[0].Lines())
	assert.Len(t, m.FactsOf(FactComment), 1)
	assert.Empty(t, m.FactsOf(FactNumber))
}
