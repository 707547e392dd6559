package check

import (
	"bytes"
	stderrors "errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/qgate/cmd/version"
	"github.com/scan-io-git/qgate/internal/baseline"
	"github.com/scan-io-git/qgate/internal/ci"
	"github.com/scan-io-git/qgate/internal/config"
	"github.com/scan-io-git/qgate/internal/gate"
	"github.com/scan-io-git/qgate/internal/logger"
	"github.com/scan-io-git/qgate/internal/parser"
	"github.com/scan-io-git/qgate/internal/report"
	"github.com/scan-io-git/qgate/internal/rules"
	"github.com/scan-io-git/qgate/internal/sarif"
	"github.com/scan-io-git/qgate/internal/scanner"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
	"github.com/scan-io-git/qgate/pkg/shared/files"

	cmdutil "github.com/scan-io-git/qgate/internal/cmd"
)

// RunOptionsCheck holds the arguments for the check command.
type RunOptionsCheck struct {
	Format           string
	OutputPath       string
	GroupBy          string
	Strict           bool
	Jobs             int
	Enable           []string
	Disable          []string
	Exclude          []string
	MaxFileLines     int
	MaxFunctionLines int
	MaxDepth         int
	MaxLineLength    int
	PrivatePrefix    string
	Policy           string
	Baseline         string
}

// Global variables for configuration and command arguments
var (
	AppConfig         *config.Config
	checkOptions      RunOptionsCheck
	exampleCheckUsage = `  # Check a single Python module
  qgate check app/service.py

  # Check a whole project and fail on warnings too
  qgate check --strict ./src ./docs

  # Write a SARIF log for code scanning upload
  qgate check --format sarif --output results.sarif .

  # Only run a few rules with a tighter function size limit
  qgate check --enable size-threshold,nesting-depth --max-function-lines 30 ./src

  # Fail the run when the policy does not hold
  qgate check --policy 'errors == 0 && warnings < 10' .

  # Only fail on issues that are not in a previously stored report
  qgate check --format json --output baseline.json .
  qgate check --baseline baseline.json .`
)

// CheckCmd represents the check command.
var CheckCmd = &cobra.Command{
	Use:                   "check [--format/-f text|json|sarif] [--output/-o PATH] [--strict] [-j JOBS] [--enable IDS] [--disable IDS] [--policy EXPR] [--baseline PATH] PATH...",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleCheckUsage,
	Short:                 "Analyses files and directories and reports quality issues with a verdict",
	RunE:                  runCheckCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runCheckCommand executes the check command.
func runCheckCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !cmdutil.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	cfg := mergeOptions(AppConfig, &checkOptions, cmd.Flags())
	logger := logger.NewLogger(cfg, "core-check")

	if err := validateCheckArgs(&checkOptions, args); err != nil {
		logger.Error("invalid check arguments", "error", err)
		return errors.NewUsageError("invalid arguments: %v", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		logger.Error("invalid configuration", "error", err)
		return errors.NewUsageError("%v", err)
	}

	overrides := cfg.SeverityOverrides()
	if err := rules.ValidateOverrides(overrides); err != nil {
		return errors.NewUsageError("%v", err)
	}
	selected, err := rules.Select(cfg.Rules.Enable, cfg.Rules.Disable)
	if err != nil {
		return errors.NewUsageError("%v", err)
	}

	var policy *gate.Policy
	if cfg.Gate.Policy != "" {
		if policy, err = gate.Compile(cfg.Gate.Policy); err != nil {
			return errors.NewUsageError("%v", err)
		}
	}

	var accepted *baseline.Baseline
	if cfg.Gate.Baseline != "" {
		if accepted, err = baseline.Load(cfg.Gate.Baseline); err != nil {
			return errors.NewUsageError("%v", err)
		}
	}

	registry := parser.Default()
	paths, err := files.Discover(args, registry.Extensions(), checkOptions.Exclude)
	if err != nil {
		return errors.NewUsageError("failed to discover artifacts: %v", err)
	}
	if len(paths) == 0 {
		return errors.NewUsageError("no supported artifacts found in %v", args)
	}

	engine := rules.NewEngine(logger, overrides, selected...)
	s := scanner.New(registry, engine, &cfg.Analysis, cfg.Jobs, logger)

	batch, err := runScan(cmd, s, args, paths)
	if err != nil {
		logger.Error("check failed", "error", err)
		return err
	}

	if accepted != nil {
		var suppressed int
		batch, suppressed = accepted.Apply(batch, logger)
		logger.Info("baseline applied", "path", cfg.Gate.Baseline, "suppressed", suppressed)
	}

	if err := writeOutput(cmd, cfg, batch, logger); err != nil {
		logger.Error("failed to write report", "error", err)
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	code := batch.ExitCode(cfg.Strict)
	if policy != nil {
		passed, err := policy.Evaluate(batch)
		if err != nil {
			logger.Error("gate policy evaluation failed", "policy", policy.String(), "error", err)
			return errors.NewCommandError(err, errors.ExitUsage)
		}
		if !passed {
			logger.Error("gate policy violated", "policy", policy.String())
			code = errors.ExitFailed
		}
	}

	if code != errors.ExitOK {
		return errors.NewCommandError(fmt.Errorf("quality gate failed: verdict %s", batch.Totals.Verdict), code)
	}
	logger.Debug("quality gate passed", "verdict", batch.Totals.Verdict)
	return nil
}

// runScan analyses the discovered paths. In single-artifact mode an
// unreadable input ends the run instead of being skipped, and a batch in
// which every artifact was skipped is treated as no input.
func runScan(cmd *cobra.Command, s *scanner.Scanner, args, paths []string) (*report.BatchReport, error) {
	if cmdutil.DetermineMode(args) == cmdutil.ModeSingleArtifact {
		r, err := s.AnalyzeFile(cmd.Context(), paths[0])
		var inputErr *errors.InputError
		switch {
		case stderrors.As(err, &inputErr):
			return nil, errors.NewCommandError(inputErr, errors.ExitUsage)
		case err != nil:
			return nil, errors.NewCommandError(err, errors.ExitUsage)
		}
		return report.NewBatch([]*report.Report{r}, nil), nil
	}

	batch, err := s.ScanFiles(cmd.Context(), paths)
	if err != nil {
		return nil, errors.NewCommandError(err, errors.ExitUsage)
	}
	if batch.Totals.Artifacts == 0 {
		return nil, errors.NewUsageError("none of the %d artifacts could be analysed", len(batch.Skipped))
	}
	return batch, nil
}

// writeOutput renders the batch in the configured format to the output file or stdout.
func writeOutput(cmd *cobra.Command, cfg *config.Config, batch *report.BatchReport, logger hclog.Logger) error {
	var buf bytes.Buffer
	switch cfg.Output.Format {
	case "json":
		if err := report.WriteJSON(&buf, batch); err != nil {
			return err
		}
	case "sarif":
		log, err := sarif.FromBatch(batch, version.CoreVersion, logger)
		if err != nil {
			return err
		}
		if env, ok := ci.Detect(); ok {
			log.AddProvenance(env)
		}
		log.SortResultsByLevel()
		logger.Debug("sarif results by level", "levels", log.CollectSeverityInfo())
		if err := log.Write(&buf); err != nil {
			return err
		}
	default:
		if err := report.WriteText(&buf, batch, report.TextOptions{GroupBy: cfg.Output.GroupBy}); err != nil {
			return err
		}
	}

	if checkOptions.OutputPath != "" {
		if err := files.WriteFile(checkOptions.OutputPath, buf.Bytes()); err != nil {
			return err
		}
		logger.Info("report written", "path", checkOptions.OutputPath, "format", cfg.Output.Format)
		return nil
	}

	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func init() {
	CheckCmd.Flags().StringVarP(&checkOptions.Format, "format", "f", "text", "Report format: text, json or sarif")
	CheckCmd.Flags().StringVarP(&checkOptions.OutputPath, "output", "o", "", "Write the report to a file instead of stdout")
	CheckCmd.Flags().StringVar(&checkOptions.GroupBy, "group-by", "severity", "Group text issues by severity or rule")
	CheckCmd.Flags().BoolVar(&checkOptions.Strict, "strict", false, "Treat PASSED_WITH_WARNINGS as a failure")
	CheckCmd.Flags().IntVarP(&checkOptions.Jobs, "jobs", "j", 4, "Number of artifacts analysed concurrently")
	CheckCmd.Flags().StringSliceVar(&checkOptions.Enable, "enable", nil, "Run only these rules (repeat flag or use comma-separated values)")
	CheckCmd.Flags().StringSliceVar(&checkOptions.Disable, "disable", nil, "Skip these rules (repeat flag or use comma-separated values)")
	CheckCmd.Flags().StringSliceVar(&checkOptions.Exclude, "exclude", nil, "File or directory names to skip while walking directories")
	CheckCmd.Flags().IntVar(&checkOptions.MaxFileLines, "max-file-lines", 0, "Maximum lines per file")
	CheckCmd.Flags().IntVar(&checkOptions.MaxFunctionLines, "max-function-lines", 0, "Maximum lines per function")
	CheckCmd.Flags().IntVar(&checkOptions.MaxDepth, "max-depth", 0, "Maximum block nesting depth")
	CheckCmd.Flags().IntVar(&checkOptions.MaxLineLength, "max-line-length", 0, "Maximum characters per line")
	CheckCmd.Flags().StringVar(&checkOptions.PrivatePrefix, "private-prefix", "", "Name prefix that exempts declarations from documentation checks")
	CheckCmd.Flags().StringVar(&checkOptions.Policy, "policy", "", "CEL expression that must hold for the run to pass")
	CheckCmd.Flags().StringVar(&checkOptions.Baseline, "baseline", "", "JSON report of accepted issues; matching issues are not reported")
	CheckCmd.Flags().BoolP("help", "h", false, "Show help for check command.")
}
