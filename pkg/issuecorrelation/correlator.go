package issuecorrelation

import (
	"github.com/scan-io-git/qgate/internal/findings"
)

// IssueMetadata describes the minimal metadata required to correlate issues.
// Fields:
//   - IssueID: caller-defined identifier, not used by correlation logic.
//   - Artifact, RuleID: identify where and by which rule the issue was raised.
//   - Line: 1-based location, 0 for artifact-level issues.
//   - Message: rendered message; it names the offending symbol or value and
//     serves as the content fingerprint when lines shift.
type IssueMetadata struct {
	IssueID  string
	Artifact string
	RuleID   string
	Line     int
	Message  string
}

// FromIssue builds the metadata of one issue raised on artifact.
func FromIssue(id, artifact string, issue findings.Issue) IssueMetadata {
	return IssueMetadata{
		IssueID:  id,
		Artifact: artifact,
		RuleID:   issue.Rule,
		Line:     issue.Line,
		Message:  issue.Message,
	}
}

// Match groups a single known issue with the list of new issues that were
// correlated to it.
type Match struct {
	Known IssueMetadata
	New   []IssueMetadata
}

// Correlator accepts slices of new and known issues and computes correlations
// between them. Use NewCorrelator to create an instance and call Process() to
// compute matches. After processing, use Matches(), UnmatchedNew() and
// UnmatchedKnown() to inspect results.
type Correlator struct {
	NewIssues   []IssueMetadata
	KnownIssues []IssueMetadata

	// populated by Process()
	knownToNew map[int][]int // known index -> list of new indices
	newToKnown map[int][]int // new index -> list of known indices

	processed bool
}

// NewCorrelator constructs a Correlator. It is inert until Process() is called.
func NewCorrelator(newIssues, knownIssues []IssueMetadata) *Correlator {
	return &Correlator{
		NewIssues:   newIssues,
		KnownIssues: knownIssues,
	}
}

// Process computes correlations using three ordered stages. Once a known or
// new issue has been matched in an earlier stage it is excluded from later
// stages:
// 1) artifact+ruleid+line+message
// 2) artifact+ruleid+message
// 3) artifact+ruleid+line
// Process is idempotent.
func (c *Correlator) Process() {
	if c.processed {
		return
	}
	c.knownToNew = make(map[int][]int)
	c.newToKnown = make(map[int][]int)

	matchedKnown := make(map[int]bool)
	matchedNew := make(map[int]bool)

	for _, stage := range []int{1, 2, 3} {
		matchedKnownThis := make(map[int]bool)
		matchedNewThis := make(map[int]bool)

		for ki, k := range c.KnownIssues {
			if matchedKnown[ki] {
				continue
			}
			for ni, n := range c.NewIssues {
				if matchedNew[ni] {
					continue
				}
				if matchStage(k, n, stage) {
					c.knownToNew[ki] = append(c.knownToNew[ki], ni)
					c.newToKnown[ni] = append(c.newToKnown[ni], ki)
					matchedKnownThis[ki] = true
					matchedNewThis[ni] = true
				}
			}
		}

		for ki := range matchedKnownThis {
			matchedKnown[ki] = true
		}
		for ni := range matchedNewThis {
			matchedNew[ni] = true
		}
	}

	c.processed = true
}

// matchStage reports whether a and b match under the given stage. RuleID is
// required for every stage.
func matchStage(a, b IssueMetadata, stage int) bool {
	if a.RuleID == "" || b.RuleID == "" {
		return false
	}
	if a.RuleID != b.RuleID || a.Artifact != b.Artifact {
		return false
	}

	switch stage {
	case 1:
		return a.Line == b.Line && a.Message == b.Message
	case 2:
		return a.Message == b.Message
	case 3:
		return a.Line == b.Line
	default:
		return false
	}
}

// UnmatchedNew returns the new issues not correlated to any known issue.
func (c *Correlator) UnmatchedNew() []IssueMetadata {
	c.Process()

	var out []IssueMetadata
	for ni, n := range c.NewIssues {
		if len(c.newToKnown[ni]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// UnmatchedKnown returns the known issues not correlated to any new issue.
func (c *Correlator) UnmatchedKnown() []IssueMetadata {
	c.Process()

	var out []IssueMetadata
	for ki, k := range c.KnownIssues {
		if len(c.knownToNew[ki]) == 0 {
			out = append(out, k)
		}
	}
	return out
}

// Matches returns one entry per known issue that had at least one correlated
// new issue, in the order of KnownIssues.
func (c *Correlator) Matches() []Match {
	c.Process()

	var out []Match
	for ki, k := range c.KnownIssues {
		newIdxs := c.knownToNew[ki]
		if len(newIdxs) == 0 {
			continue
		}
		m := Match{Known: k, New: make([]IssueMetadata, 0, len(newIdxs))}
		for _, ni := range newIdxs {
			m.New = append(m.New, c.NewIssues[ni])
		}
		out = append(out, m)
	}
	return out
}
