package cmd

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/qgate/cmd/check"
	"github.com/scan-io-git/qgate/cmd/rules"
	validatereport "github.com/scan-io-git/qgate/cmd/validate-report"
	"github.com/scan-io-git/qgate/cmd/version"
	"github.com/scan-io-git/qgate/internal/config"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "qgate [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "qgate checks source files and documents against structural quality rules.",
		Long: `qgate parses Python, JavaScript/TypeScript and Markdown artifacts into a structural
model, runs an independent set of quality rules over it and turns the findings into a
report with a verdict and an exit code suitable for CI gates.
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .qgate.yml when present)")
	rootCmd.AddCommand(check.CheckCmd)
	rootCmd.AddCommand(rules.RulesCmd)
	rootCmd.AddCommand(validatereport.ValidateReportCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	err := rootCmd.Execute()
	if err == nil {
		return errors.ExitOK
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var cmdErr *errors.CommandError
	if stderrors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	// cobra reports unknown commands and malformed flags as plain errors
	return errors.ExitUsage
}

func initConfig() error {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.NewUsageError("failed to load .env file: %v", err)
	}

	var err error
	AppConfig, err = config.LoadConfig(config.ResolvePath(cfgFile))
	if err != nil {
		return errors.NewUsageError("initializing config file failed: %v", err)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		return errors.NewUsageError("%v", err)
	}

	check.Init(AppConfig)
	rules.Init(AppConfig)
	validatereport.Init(AppConfig)
	return nil
}
