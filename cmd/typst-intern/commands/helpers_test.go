package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/purpl3F0x/typst/cmd/typst-intern/commands"
)

// execute runs the root command with a private config file and returns what
// it wrote to stdout and stderr.
func execute(t *testing.T, configYAML string, sub string, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "typst-intern.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o600))

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{sub, "--config", cfgPath}, args...))

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}
