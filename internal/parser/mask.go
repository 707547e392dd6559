package parser

import (
	"strings"
)

// commentMark replaces comment text inside masked code so that brace walking
// still sees that something occupied the position.
const commentMark = '\x00'

type maskState int

const (
	maskCode maskState = iota
	maskBlockComment
	maskTemplate
)

// maskedLine is one source line with string literals collapsed to "" and
// comments replaced by commentMark.
type maskedLine struct {
	code     string
	comments []string
	// literals holds the content of each collapsed literal, in order.
	literals []string
	// startState is the state the line began in; imports are only read from
	// lines that start as code.
	startState maskState
}

// clean returns the masked code with comment marks turned into spaces, for regex matching.
func (l maskedLine) clean() string {
	return strings.ReplaceAll(l.code, string(commentMark), " ")
}

// masker strips string literals and comments from C-like source one line at
// a time. Block comments and template literals may span lines and never overlap.
type masker struct {
	state     maskState
	openedAt  int
	lineCount int
}

func (m *masker) next(raw string) maskedLine {
	m.lineCount++
	out := maskedLine{startState: m.state}

	var code strings.Builder
	var comment strings.Builder
	inComment := false
	flushComment := func() {
		if inComment {
			out.comments = append(out.comments, strings.TrimSpace(comment.String()))
			comment.Reset()
			code.WriteByte(commentMark)
			inComment = false
		}
	}

	i := 0
	for i < len(raw) {
		switch m.state {
		case maskBlockComment:
			inComment = true
			end := strings.Index(raw[i:], "*/")
			if end < 0 {
				comment.WriteString(raw[i:])
				i = len(raw)
				continue
			}
			comment.WriteString(raw[i : i+end])
			i += end + 2
			m.state = maskCode
			flushComment()

		case maskTemplate:
			j := i
			for j < len(raw) && raw[j] != '`' {
				if raw[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(raw) {
				i = len(raw)
				continue
			}
			i = j + 1
			m.state = maskCode

		default:
			c := raw[i]
			switch {
			case c == '/' && i+1 < len(raw) && raw[i+1] == '/':
				out.comments = append(out.comments, strings.TrimSpace(raw[i+2:]))
				code.WriteByte(commentMark)
				i = len(raw)
			case c == '/' && i+1 < len(raw) && raw[i+1] == '*':
				m.state = maskBlockComment
				m.openedAt = m.lineCount
				i += 2
			case c == '"' || c == '\'':
				end := skipQuoted(raw, i+1, c)
				out.literals = append(out.literals, strings.TrimSuffix(raw[i+1:end], string(c)))
				i = end
				code.WriteString(`""`)
			case c == '`':
				out.literals = append(out.literals, "")
				code.WriteString(`""`)
				m.state = maskTemplate
				m.openedAt = m.lineCount
				i++
			default:
				code.WriteByte(c)
				i++
			}
		}
	}
	flushComment()

	out.code = code.String()
	return out
}

// literalAt returns the content of the collapsed literal whose opening quote
// sits at pos in the clean code.
func (l maskedLine) literalAt(clean string, pos int) (string, bool) {
	idx := strings.Count(clean[:pos], `"`) / 2
	if idx >= len(l.literals) {
		return "", false
	}
	return l.literals[idx], true
}

// skipQuoted returns the index just past the closing quote, or the end of
// the line for an unterminated literal.
func skipQuoted(raw string, i int, quote byte) int {
	for i < len(raw) {
		switch raw[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		i++
	}
	return len(raw)
}
