// Package rules holds the rule catalog and the engine that applies it to a
// structural model.
package rules

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/qgate/internal/config"
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
)

// Rule identifiers. They are stable and used for grouping, overrides and selection.
const (
	RuleSizeThresholdID        = "size-threshold"
	RuleMissingDocumentationID = "missing-documentation"
	RuleMissingAnnotationID    = "missing-type-annotation"
	RuleNamingConventionID     = "naming-convention"
	RuleImportOrderingID       = "import-ordering"
	RuleMarkerCommentID        = "marker-comment"
	RuleDebugResidueID         = "debug-residue"
	RuleNestingDepthID         = "nesting-depth"
	RuleNumericLiteralID       = "numeric-literal-review"
	RuleEmptyHandlerID         = "empty-error-handler"
	RuleLineLengthID           = "line-length"
	RuleHierarchySkipID        = "structural-hierarchy-skip"
	RuleEmptySectionID         = "empty-section"
	RuleDanglingReferenceID    = "dangling-reference"
	RuleUnclosedBlockID        = "unclosed-block"
	RuleMissingAltTextID       = "missing-alt-text"
	RuleMissingMetadataID      = "missing-metadata"
	RuleMissingHeadingsID      = "missing-headings"

	// Emitted by the engine and the runner, never by a catalog rule.
	ParseIssueID    = "parse"
	InternalIssueID = "internal"
)

// Input is everything a rule may look at. Rules must treat it as read-only.
type Input struct {
	Model  *model.Model
	Lines  []string
	Config *config.Analysis
}

// Rule is a single independent check over a structural model.
type Rule interface {
	ID() string
	Description() string
	Severity() findings.Severity
	Apply(in *Input) ([]findings.Issue, error)
}

// Catalog returns every built-in rule in its canonical order.
func Catalog() []Rule {
	return []Rule{
		NewRuleSizeThreshold(),
		NewRuleMissingDocumentation(),
		NewRuleMissingAnnotation(),
		NewRuleNamingConvention(),
		NewRuleImportOrdering(),
		NewRuleMarkerComment(),
		NewRuleDebugResidue(),
		NewRuleNestingDepth(),
		NewRuleNumericLiteral(),
		NewRuleEmptyHandler(),
		NewRuleLineLength(),
		NewRuleHierarchySkip(),
		NewRuleEmptySection(),
		NewRuleDanglingReference(),
		NewRuleUnclosedBlock(),
		NewRuleMissingAltText(),
		NewRuleMissingMetadata(),
		NewRuleMissingHeadings(),
	}
}

// IDs returns the identifiers of the catalog in order.
func IDs() []string {
	all := Catalog()
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID())
	}
	return ids
}

// Select narrows the catalog. An empty enable list keeps every rule; disable
// always wins. Unknown identifiers are an error.
func Select(enable, disable []string) ([]Rule, error) {
	all := Catalog()
	known := make(map[string]struct{}, len(all))
	for _, r := range all {
		known[r.ID()] = struct{}{}
	}

	toSet := func(ids []string) (map[string]struct{}, error) {
		set := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("unknown rule %q", id)
			}
			set[id] = struct{}{}
		}
		return set, nil
	}

	enabled, err := toSet(enable)
	if err != nil {
		return nil, err
	}
	disabled, err := toSet(disable)
	if err != nil {
		return nil, err
	}

	var out []Rule
	for _, r := range all {
		if _, off := disabled[r.ID()]; off {
			continue
		}
		if len(enabled) > 0 {
			if _, on := enabled[r.ID()]; !on {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// ValidateOverrides checks that severity overrides only name catalog rules.
func ValidateOverrides(overrides map[string]findings.Severity) error {
	ids := make(map[string]struct{})
	for _, id := range IDs() {
		ids[id] = struct{}{}
	}
	ids[InternalIssueID] = struct{}{}
	for id := range overrides {
		if _, ok := ids[id]; !ok {
			return fmt.Errorf("severity override names unknown rule %q", id)
		}
	}
	return nil
}
