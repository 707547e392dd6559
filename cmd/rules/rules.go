package rules

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/qgate/internal/config"
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/rules"
)

var AppConfig *config.Config

// RulesCmd represents the rules command.
var RulesCmd = &cobra.Command{
	Use:                   "rules",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Lists every rule with its effective severity and description",
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var overrides map[string]findings.Severity
		if AppConfig != nil {
			overrides = AppConfig.SeverityOverrides()
		}
		printCatalog(cmd.OutOrStdout(), rules.Catalog(), overrides)
		return nil
	},
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// printCatalog writes one line per rule in catalog order. Severity overrides
// from the configuration replace the default level.
func printCatalog(w io.Writer, catalog []rules.Rule, overrides map[string]findings.Severity) {
	for _, r := range catalog {
		sev := r.Severity()
		if o, ok := overrides[r.ID()]; ok {
			sev = o
		}
		fmt.Fprintf(w, "%-28s %-8s %s\n", r.ID(), sev, r.Description())
	}
}
