package findings

import (
	"sort"
)

// Collector accumulates issues for one artifact in insertion order.
// It is not safe for concurrent use; each artifact run owns its own collector.
type Collector struct {
	issues []Issue
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends issues to the collector.
func (c *Collector) Add(issues ...Issue) {
	c.issues = append(c.issues, issues...)
}

// Len returns the number of collected issues.
func (c *Collector) Len() int {
	return len(c.issues)
}

// All returns a copy of the issues in insertion order.
func (c *Collector) All() []Issue {
	out := make([]Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// BySeverity returns the issues ordered severity-first (most severe first), then by line.
func (c *Collector) BySeverity() []Issue {
	out := c.All()
	SortBySeverity(out)
	return out
}

// ByLine returns the issues ordered by line, then severity.
func (c *Collector) ByLine() []Issue {
	out := c.All()
	SortByLine(out)
	return out
}

// CountBySeverity returns the number of issues per severity.
func (c *Collector) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{
		SeverityError:   0,
		SeverityWarning: 0,
		SeverityInfo:    0,
	}
	for _, i := range c.issues {
		counts[i.Severity]++
	}
	return counts
}

// CountByRule returns the number of issues per rule id.
func (c *Collector) CountByRule() map[string]int {
	counts := make(map[string]int)
	for _, i := range c.issues {
		counts[i.Rule]++
	}
	return counts
}

// SortBySeverity sorts issues in place, severity-first then line. The sort is stable.
func SortBySeverity(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		if issues[a].Severity != issues[b].Severity {
			return issues[a].Severity > issues[b].Severity
		}
		return issues[a].Line < issues[b].Line
	})
}

// SortByLine sorts issues in place, line-first then severity. The sort is stable.
func SortByLine(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		if issues[a].Line != issues[b].Line {
			return issues[a].Line < issues[b].Line
		}
		return issues[a].Severity > issues[b].Severity
	})
}
