package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"run", "procs", "proc", "columns", "version"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestConnectionFlags(t *testing.T) {
	for _, name := range []string{"host", "port", "username", "database", "encrypt", "trust-server-cert", "config-dir"} {
		require.NotNil(t, runCmd.Flags().Lookup(name), "run command missing flag %q", name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRunCommandFlags(t *testing.T) {
	for _, name := range []string{"proc", "case-type", "case-id", "param", "params-file"} {
		require.NotNil(t, runCmd.Flags().Lookup(name), "run command missing flag %q", name)
	}
}
