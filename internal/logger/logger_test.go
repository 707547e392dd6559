package logger

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/qgate/internal/config"
)

func TestDetermineLogLevel(t *testing.T) {
	testCases := []struct {
		name     string
		env      string
		cfgLevel string
		want     hclog.Level
	}{
		{name: "Default", want: hclog.Info},
		{name: "From config", cfgLevel: "debug", want: hclog.Debug},
		{name: "Env wins", env: "error", cfgLevel: "debug", want: hclog.Error},
		{name: "Unknown falls back", cfgLevel: "verbose", want: hclog.Info},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(LogLevelEnv, tc.env)
			cfg := config.Default()
			cfg.Logger.Level = tc.cfgLevel
			assert.Equal(t, tc.want, determineLogLevel(cfg))
		})
	}
}

func TestNewLoggerName(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	l := NewLogger(nil, "core-check")
	assert.Equal(t, "core-check", l.Name())
	assert.True(t, l.IsInfo())
}
