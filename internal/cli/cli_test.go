package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and captures stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeModel writes a model YAML to a temp dir and returns its path.
func writeModel(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

const singletonModel = `
name: humidity-check
kind: singleton
nodes:
  - id: 0
    description: humidity above limit
    function: greater_than
    params: {threshold: 0.6}
`

const graphModel = `
name: chain
kind: graph
start: 0
nodes:
  - id: 0
    description: gate
    function: greater_than
    params: {threshold: 0.5}
  - id: 1
    description: forward
    function: passthrough
edges:
  - {from: 0, to: 1}
`
