package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/qgate/internal/findings"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qgate.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, 300, cfg.Analysis.Thresholds.MaxFileLines)
	assert.Equal(t, 50, cfg.Analysis.Thresholds.MaxFunctionLines)
	assert.Equal(t, 3, cfg.Analysis.Thresholds.MaxNestingDepth)
	assert.Equal(t, 120, cfg.Analysis.Thresholds.MaxLineLength)
	assert.Equal(t, "_", cfg.Analysis.Naming.PrivatePrefix)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
analysis:
  thresholds:
    max_function_lines: 80
  markers: [TODO]
rules:
  disable: [line-length]
  severity:
    debug-residue: error
output:
  format: json
strict: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 80, cfg.Analysis.Thresholds.MaxFunctionLines)
	assert.Equal(t, 300, cfg.Analysis.Thresholds.MaxFileLines, "unspecified keys keep defaults")
	assert.Equal(t, []string{"TODO"}, cfg.Analysis.Markers)
	assert.Equal(t, []string{"line-length"}, cfg.Rules.Disable)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Strict)
	assert.Equal(t, map[string]findings.Severity{"debug-residue": findings.SeverityError}, cfg.SeverityOverrides())
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Jobs)
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "Missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yml") }},
		{name: "Directory", path: func(t *testing.T) string { return t.TempDir() }},
		{name: "Unknown key", path: func(t *testing.T) string { return writeConfig(t, "unknown_key: 1\n") }},
		{name: "Malformed", path: func(t *testing.T) string { return writeConfig(t, "jobs: [\n") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(tc.path(t))
			assert.Error(t, err)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "Valid", mutate: func(cfg *Config) {}},
		{name: "Zero threshold", mutate: func(cfg *Config) { cfg.Analysis.Thresholds.MaxLineLength = 0 }, wantErr: true},
		{name: "Unknown format", mutate: func(cfg *Config) { cfg.Output.Format = "html" }, wantErr: true},
		{name: "Unknown grouping", mutate: func(cfg *Config) { cfg.Output.GroupBy = "file" }, wantErr: true},
		{name: "Too many jobs", mutate: func(cfg *Config) { cfg.Jobs = 1000 }, wantErr: true},
		{name: "Empty marker", mutate: func(cfg *Config) { cfg.Analysis.Markers = []string{""} }, wantErr: true},
		{name: "Empty private prefix", mutate: func(cfg *Config) { cfg.Analysis.Naming.PrivatePrefix = "" }, wantErr: true},
		{name: "Bad log level", mutate: func(cfg *Config) { cfg.Logger.Level = "LOUD" }, wantErr: true},
		{name: "Bad severity override", mutate: func(cfg *Config) { cfg.Rules.Severity["line-length"] = "fatal" }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := ValidateConfig(cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	assert.Equal(t, "explicit.yml", ResolvePath("explicit.yml"))

	t.Setenv(ConfigPathEnv, "/etc/qgate.yml")
	assert.Equal(t, "/etc/qgate.yml", ResolvePath(""))
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, "INFO", SetThen("", "INFO"))
	assert.Equal(t, "DEBUG", SetThen("DEBUG", "INFO"))
	assert.Equal(t, 3, SetThen(0, 3))

	yes := true
	assert.True(t, BoolValue(&yes, false))
	assert.True(t, BoolValue(nil, true))
}
