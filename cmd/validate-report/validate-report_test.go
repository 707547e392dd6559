package validatereport

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/qgate/pkg/shared/errors"
)

func TestValidateReportCommand(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{
  "reports": [],
  "skipped": [],
  "totals": {"artifacts": 0, "errors": 0, "warnings": 0, "info": 0, "failed": 0, "verdict": "PASSED"}
}`), 0o644))
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"artifact": "a.py"}`), 0o644))
	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte(`{not json`), 0o644))

	testCases := []struct {
		name     string
		path     string
		wantCode int
		wantOut  string
	}{
		{name: "valid report", path: valid, wantCode: errors.ExitOK, wantOut: "valid"},
		{name: "schema violation", path: invalid, wantCode: errors.ExitFailed, wantOut: "report validation failed"},
		{name: "not json", path: garbage, wantCode: errors.ExitUsage},
		{name: "missing file", path: filepath.Join(dir, "missing.json"), wantCode: errors.ExitUsage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			ValidateReportCmd.SetOut(&out)
			ValidateReportCmd.SetArgs([]string{tc.path})

			err := ValidateReportCmd.Execute()
			if tc.wantCode == errors.ExitOK {
				require.NoError(t, err)
			} else {
				var cmdErr *errors.CommandError
				require.True(t, stderrors.As(err, &cmdErr))
				assert.Equal(t, tc.wantCode, cmdErr.ExitCode)
			}
			assert.Contains(t, out.String(), tc.wantOut)
		})
	}
}
