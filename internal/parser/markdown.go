package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/scan-io-git/qgate/internal/model"
)

var (
	mdHeadingRe      = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	mdClosingHashRe  = regexp.MustCompile(`\s+#+\s*$`)
	mdFenceRe        = regexp.MustCompile("^(`{3,}|~{3,})(.*)$")
	mdImageRe        = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
	mdLinkRe         = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	mdAnchorRe       = regexp.MustCompile(`(?i)<a\s+(?:name|id)\s*=\s*["']([^"']+)["']`)
	mdInlineCodeSpan = regexp.MustCompile("`[^`]+`")
)

// Markdown is the approximate parser for Markdown documents.
type Markdown struct{}

// NewMarkdown creates the Markdown parser.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

func (p *Markdown) Name() string { return "markdown" }

func (p *Markdown) Strategy() Strategy { return StrategyApproximate }

func (p *Markdown) Class() model.Class { return model.ClassDocument }

func (p *Markdown) Extensions() []string { return []string{".md", ".markdown"} }

type openFence struct {
	line   int
	marker string
	lang   string
}

// Parse builds the structural model of a Markdown document. Unclosed fences
// and comments are recorded as unclosed nodes rather than failures.
func (p *Markdown) Parse(ctx context.Context, src []byte) (*model.Model, error) {
	lines := model.SplitLines(src)
	m := &model.Model{Class: model.ClassDocument, Naming: model.NamingNone, LineCount: len(lines)}

	var fence *openFence
	commentOpenedAt := 0
	var headings []int
	current := -1

	for i, raw := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		if fence != nil {
			if closesFence(trimmed, fence.marker) {
				m.Nodes = append(m.Nodes, codeBlock(fence, lineNo, true))
				fence = nil
			}
			continue
		}

		if commentOpenedAt > 0 {
			if strings.Contains(raw, "-->") {
				m.Nodes = append(m.Nodes, commentBlock(commentOpenedAt, lineNo, true))
				commentOpenedAt = 0
			}
			continue
		}

		if fm := mdFenceRe.FindStringSubmatch(trimmed); fm != nil {
			lang := ""
			if fields := strings.Fields(fm[2]); len(fields) > 0 {
				lang = fields[0]
			}
			fence = &openFence{line: lineNo, marker: fm[1], lang: lang}
			continue
		}

		if strings.HasPrefix(trimmed, "<!--") {
			if strings.Contains(trimmed[4:], "-->") {
				m.Nodes = append(m.Nodes, commentBlock(lineNo, lineNo, true))
			} else {
				commentOpenedAt = lineNo
			}
			continue
		}

		if trimmed == "" {
			continue
		}
		m.Facts = append(m.Facts, model.Fact{Kind: model.FactText, Line: lineNo, Text: trimmed})

		if hm := mdHeadingRe.FindStringSubmatch(trimmed); hm != nil {
			text := strings.TrimSpace(mdClosingHashRe.ReplaceAllString(hm[2], ""))
			level := len(hm[1])
			headings = append(headings, len(m.Nodes))
			current = len(m.Nodes)
			m.Nodes = append(m.Nodes, model.Node{
				Kind:      model.KindHeading,
				Name:      text,
				StartLine: lineNo,
				EndLine:   lineNo,
				Depth:     level,
				Heading:   &model.HeadingAttrs{Level: level, Slug: model.Slugify(text)},
			})
			m.Nodes = append(m.Nodes, references(text, lineNo)...)
			continue
		}

		if current >= 0 {
			m.Nodes[current].Heading.Words += model.CountWords(trimmed)
		}
		m.Nodes = append(m.Nodes, references(trimmed, lineNo)...)
	}

	if fence != nil {
		m.Nodes = append(m.Nodes, codeBlock(fence, len(lines), false))
	}
	if commentOpenedAt > 0 {
		m.Nodes = append(m.Nodes, commentBlock(commentOpenedAt, len(lines), false))
	}

	for k, idx := range headings {
		end := len(lines)
		if k+1 < len(headings) {
			end = m.Nodes[headings[k+1]].StartLine - 1
		}
		m.Nodes[idx].EndLine = end
	}
	return m, nil
}

// closesFence reports whether the line closes a fence opened with marker.
func closesFence(trimmed, marker string) bool {
	if len(trimmed) < len(marker) || trimmed[0] != marker[0] {
		return false
	}
	return strings.Trim(trimmed, marker[:1]) == ""
}

func codeBlock(f *openFence, end int, closed bool) model.Node {
	return model.Node{
		Kind:      model.KindCodeBlock,
		Name:      f.lang,
		StartLine: f.line,
		EndLine:   end,
		Block:     &model.BlockAttrs{Lang: f.lang, Closed: closed},
	}
}

func commentBlock(start, end int, closed bool) model.Node {
	return model.Node{
		Kind:      model.KindCommentBlock,
		StartLine: start,
		EndLine:   end,
		Block:     &model.BlockAttrs{Closed: closed},
	}
}

// references extracts images, links and declared anchors from one prose line.
func references(line string, lineNo int) []model.Node {
	// blank out inline code so that brackets inside it are not read as links
	line = mdInlineCodeSpan.ReplaceAllStringFunc(line, func(s string) string {
		return strings.Repeat(" ", len(s))
	})

	var out []model.Node
	for _, im := range mdImageRe.FindAllStringSubmatch(line, -1) {
		out = append(out, model.Node{
			Kind:      model.KindImage,
			Name:      im[1],
			StartLine: lineNo,
			EndLine:   lineNo,
			Ref:       &model.RefAttrs{Target: im[2], Text: im[1]},
		})
	}
	for _, loc := range mdLinkRe.FindAllStringSubmatchIndex(line, -1) {
		if loc[0] > 0 && line[loc[0]-1] == '!' {
			continue
		}
		text := line[loc[2]:loc[3]]
		out = append(out, model.Node{
			Kind:      model.KindLink,
			Name:      text,
			StartLine: lineNo,
			EndLine:   lineNo,
			Ref:       &model.RefAttrs{Target: line[loc[4]:loc[5]], Text: text},
		})
	}
	for _, am := range mdAnchorRe.FindAllStringSubmatch(line, -1) {
		out = append(out, model.Node{
			Kind:      model.KindAnchor,
			Name:      am[1],
			StartLine: lineNo,
			EndLine:   lineNo,
			Ref:       &model.RefAttrs{Target: am[1]},
		})
	}
	return out
}
