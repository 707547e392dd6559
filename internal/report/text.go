package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// Issue grouping modes of the text renderer.
const (
	GroupBySeverity = "severity"
	GroupByRule     = "rule"
)

const textWidth = 60

var severityOrder = []findings.Severity{findings.SeverityError, findings.SeverityWarning, findings.SeverityInfo}

// TextOptions tune the text renderer.
type TextOptions struct {
	GroupBy string
}

// WriteText renders the batch as bordered, human-readable reports followed by
// a summary line.
func WriteText(w io.Writer, b *BatchReport, opts TextOptions) error {
	var sb strings.Builder
	for _, r := range b.Reports {
		writeReportText(&sb, r, opts)
		sb.WriteString("\n")
	}

	for _, s := range b.Skipped {
		fmt.Fprintf(&sb, "Skipped %s: %s\n", s.Artifact, s.Reason)
	}
	t := b.Totals
	fmt.Fprintf(&sb, "Checked %d artifact(s): %d error(s), %d warning(s), %d info, %d failed, %d skipped. Verdict: %s\n",
		t.Artifacts, t.Errors, t.Warnings, t.Info, t.Failed, len(b.Skipped), t.Verdict)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeReportText(sb *strings.Builder, r *Report, opts TextOptions) {
	border := strings.Repeat("=", textWidth)
	fmt.Fprintf(sb, "%s\nQUALITY REPORT: %s\n%s\n", border, r.Artifact, border)

	s := r.Summary
	if r.Class == model.ClassDocument {
		fmt.Fprintf(sb, "Lines: %d | Headings: %d | Code blocks: %d | Images: %d | Links: %d | Words: %d\n",
			s.Lines, s.Headings, s.CodeBlocks, s.Images, s.Links, s.Words)
	} else {
		fmt.Fprintf(sb, "Lines: %d | Functions: %d | Classes: %d | Imports: %d\n",
			s.Lines, s.Functions, s.Classes, s.Imports)
	}
	fmt.Fprintf(sb, "Issues: %d errors, %d warnings, %d info\n", r.Stats.Errors, r.Stats.Warnings, r.Stats.Info)
	fmt.Fprintf(sb, "Verdict: %s (score: %d/100)\n", r.Verdict, r.Score)

	if len(r.Issues) == 0 {
		sb.WriteString("\nNo issues found.\n")
	} else {
		ruleIDs := sortedKeys(r.Rules)
		fmt.Fprintf(sb, "\nFound %d issue(s) across %d rule(s)\n", len(r.Issues), len(ruleIDs))
		for _, id := range ruleIDs {
			fmt.Fprintf(sb, "  %-28s %d\n", id, r.Rules[id])
		}

		if opts.GroupBy == GroupByRule {
			writeByRule(sb, r.Issues, ruleIDs)
		} else {
			writeBySeverity(sb, r.Issues)
		}
	}

	if len(r.Sections) > 0 {
		sb.WriteString("\nSections:\n")
		for _, sec := range r.Sections {
			fmt.Fprintf(sb, "  L%-5d %s%s (%d words)\n", sec.Line, strings.Repeat("#", sec.Level)+" ", sec.Heading, sec.Words)
		}
	}
	sb.WriteString(border + "\n")
}

func writeBySeverity(sb *strings.Builder, issues []findings.Issue) {
	ordered := append([]findings.Issue{}, issues...)
	findings.SortBySeverity(ordered)
	for _, sev := range severityOrder {
		header := false
		for _, i := range ordered {
			if i.Severity != sev {
				continue
			}
			if !header {
				fmt.Fprintf(sb, "\n%s\n", strings.ToUpper(sev.String()))
				header = true
			}
			sb.WriteString("  " + i.String() + "\n")
		}
	}
}

func writeByRule(sb *strings.Builder, issues []findings.Issue, ruleIDs []string) {
	for _, id := range ruleIDs {
		fmt.Fprintf(sb, "\n%s\n", id)
		for _, i := range issues {
			if i.Rule == id {
				sb.WriteString("  " + i.String() + "\n")
			}
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
