package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout. Flag values
// persist between executions in one process, so every flag is reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TRIPSCORE_LOG_LEVEL", "error")
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// useSQLite points the store at a fresh database under t.TempDir.
func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("TRIPSCORE_STORE_DRIVER", "sqlite")
	t.Setenv("TRIPSCORE_STORE_DATABASE_URL", filepath.Join(t.TempDir(), "tripscore.db"))
}

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"weights", "extract", "score", "compare", "itinerary", "plan", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "tripscore", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	flag := rootCmd.PersistentFlags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, formatJSON, flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestPlanCommand_Flags(t *testing.T) {
	for _, name := range []string{"user", "origin", "destination", "depart", "return", "end", "location", "adults", "max", "budget"} {
		assert.NotNil(t, planCmd.Flags().Lookup(name), "plan should have --%s flag", name)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := execute(t, "weights", "normalize", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
