package check

import (
	"fmt"
	"strings"
)

var (
	supportedFormats   = []string{"text", "json", "sarif"}
	supportedGroupings = []string{"severity", "rule"}
)

// validateCheckArgs validates the command options and positional paths.
func validateCheckArgs(options *RunOptionsCheck, args []string) error {
	var (
		negative []string
		issues   []string
	)

	if len(args) == 0 {
		issues = append(issues, "provide at least one file or directory")
	}
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			issues = append(issues, "empty path argument")
			break
		}
	}

	if !oneOf(options.Format, supportedFormats) {
		issues = append(issues, fmt.Sprintf("unsupported format %q (expected one of: %s)", options.Format, strings.Join(supportedFormats, ", ")))
	}
	if !oneOf(options.GroupBy, supportedGroupings) {
		issues = append(issues, fmt.Sprintf("unsupported grouping %q (expected one of: %s)", options.GroupBy, strings.Join(supportedGroupings, ", ")))
	}
	if options.Jobs < 1 || options.Jobs > 64 {
		issues = append(issues, "'jobs' must be between 1 and 64")
	}

	thresholds := []struct {
		name  string
		value int
	}{
		{"max-file-lines", options.MaxFileLines},
		{"max-function-lines", options.MaxFunctionLines},
		{"max-depth", options.MaxDepth},
		{"max-line-length", options.MaxLineLength},
	}
	for _, th := range thresholds {
		if th.value < 0 {
			negative = append(negative, th.name)
		}
	}
	if len(negative) > 0 {
		issues = append(issues, fmt.Sprintf("thresholds cannot be negative: %s", strings.Join(negative, ", ")))
	}

	if len(issues) > 0 {
		return fmt.Errorf("%s", strings.Join(issues, "; "))
	}

	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
