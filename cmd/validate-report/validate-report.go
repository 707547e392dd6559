package validatereport

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/qgate/internal/config"
	"github.com/scan-io-git/qgate/internal/logger"
	"github.com/scan-io-git/qgate/internal/report"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
	"github.com/scan-io-git/qgate/pkg/shared/files"
)

var (
	AppConfig                  *config.Config
	exampleValidateReportUsage = `  # Check a stored JSON report before handing it to another tool
  qgate check --format json --output report.json ./src
  qgate validate-report report.json`
)

// ValidateReportCmd represents the validate-report command.
var ValidateReportCmd = &cobra.Command{
	Use:                   "validate-report PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleValidateReportUsage,
	Short:                 "Validates a stored JSON report against the report schema",
	Args:                  cobra.ExactArgs(1),
	RunE:                  runValidateReportCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runValidateReportCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-validate-report")
	path := args[0]

	if err := files.ValidatePath(path); err != nil {
		return errors.NewCommandError(errors.NewInputError(path, err), errors.ExitUsage)
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return errors.NewCommandError(errors.NewInputError(path, err), errors.ExitUsage)
	}

	err = report.Validate(doc)
	var (
		validationErr *report.ValidationError
		loadErr       *report.SchemaLoadError
	)
	switch {
	case err == nil:
		logger.Debug("report is valid", "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", path)
		return nil
	case stderrors.As(err, &validationErr):
		logger.Error("report does not match the schema", "path", path, "violations", len(validationErr.Errors))
		fmt.Fprint(cmd.OutOrStdout(), validationErr.Error())
		return errors.NewCommandError(fmt.Errorf("%s: invalid report", path), errors.ExitFailed)
	case stderrors.As(err, &loadErr):
		return errors.NewCommandError(fmt.Errorf("%s: %w", path, loadErr), errors.ExitUsage)
	default:
		return errors.NewCommandError(err, errors.ExitUsage)
	}
}
