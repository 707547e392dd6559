package rules

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/rules"
)

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	printCatalog(&buf, rules.Catalog(), map[string]findings.Severity{
		rules.RuleLineLengthID: findings.SeverityError,
	})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(rules.Catalog()))

	for i, id := range rules.IDs() {
		assert.True(t, strings.HasPrefix(lines[i], id+" "), "line %d should start with %q", i, id)
	}
	for _, line := range lines {
		if strings.HasPrefix(line, rules.RuleLineLengthID+" ") {
			assert.Contains(t, line, " error ")
		}
	}
}
