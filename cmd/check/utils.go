package check

import (
	"github.com/spf13/pflag"

	"github.com/scan-io-git/qgate/internal/config"
)

// mergeOptions returns a copy of the base configuration with every flag the
// user set on the command line applied on top. Flags left at their defaults
// never override values from the configuration file.
func mergeOptions(base *config.Config, options *RunOptionsCheck, flags *pflag.FlagSet) *config.Config {
	if base == nil {
		base = config.Default()
	}
	cfg := *base

	if flags.Changed("format") {
		cfg.Output.Format = options.Format
	}
	if flags.Changed("group-by") {
		cfg.Output.GroupBy = options.GroupBy
	}
	if flags.Changed("strict") {
		cfg.Strict = options.Strict
	}
	if flags.Changed("jobs") {
		cfg.Jobs = options.Jobs
	}
	if flags.Changed("enable") {
		cfg.Rules.Enable = options.Enable
	}
	if flags.Changed("disable") {
		cfg.Rules.Disable = append(append([]string(nil), base.Rules.Disable...), options.Disable...)
	}
	if flags.Changed("max-file-lines") {
		cfg.Analysis.Thresholds.MaxFileLines = options.MaxFileLines
	}
	if flags.Changed("max-function-lines") {
		cfg.Analysis.Thresholds.MaxFunctionLines = options.MaxFunctionLines
	}
	if flags.Changed("max-depth") {
		cfg.Analysis.Thresholds.MaxNestingDepth = options.MaxDepth
	}
	if flags.Changed("max-line-length") {
		cfg.Analysis.Thresholds.MaxLineLength = options.MaxLineLength
	}
	if flags.Changed("private-prefix") {
		cfg.Analysis.Naming.PrivatePrefix = options.PrivatePrefix
	}
	if flags.Changed("policy") {
		cfg.Gate.Policy = options.Policy
	}
	if flags.Changed("baseline") {
		cfg.Gate.Baseline = options.Baseline
	}

	return &cfg
}
