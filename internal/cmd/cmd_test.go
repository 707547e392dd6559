package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineMode(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(file, []byte("x = 1\n"), 0o644))

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "one file", args: []string{file}, want: ModeSingleArtifact},
		{name: "one missing file", args: []string{filepath.Join(dir, "gone.py")}, want: ModeSingleArtifact},
		{name: "one directory", args: []string{dir}, want: ModeBatch},
		{name: "several files", args: []string{file, file}, want: ModeBatch},
		{name: "nothing", want: ModeBatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetermineMode(tc.args))
		})
	}
}

func TestHasFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("strict", false, "")
	flags.Int("jobs", 4, "")

	require.NoError(t, flags.Parse(nil))
	assert.False(t, HasFlags(flags))

	require.NoError(t, flags.Parse([]string{"--jobs", "2"}))
	assert.True(t, HasFlags(flags))
}
