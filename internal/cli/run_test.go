package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/causant/internal/store"
	"github.com/roach88/causant/internal/testutil"
)

func TestRun_SingletonText(t *testing.T) {
	path := writeModel(t, singletonModel)

	out, err := executeCommand(t, "run", path, "--input", "0.7")
	require.NoError(t, err)
	assert.Contains(t, out, "model: humidity-check")
	assert.Contains(t, out, "value: Value(true)")
	assert.Contains(t, out, "[1] causaloid 0: input: Value(0.7)")
	assert.Contains(t, out, "[2] causaloid 0: output: Value(true)")
}

func TestRun_SingletonJSON(t *testing.T) {
	path := writeModel(t, singletonModel)

	out, err := executeCommand(t, "--format", "json", "run", path, "--input", "0.3")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "humidity-check", data["model"])
	assert.Equal(t, "Value(false)", data["value"])
	assert.Contains(t, data["explain"], "input: Value(0.3)")
}

func TestRun_GraphEvaluatesFromStart(t *testing.T) {
	path := writeModel(t, graphModel)

	out, err := executeCommand(t, "run", path, "--input", "0.9")
	require.NoError(t, err)
	assert.Contains(t, out, "value: Value(true)")
	assert.Contains(t, out, "causaloid 1:")
}

func TestRun_InvalidStartNodeFails(t *testing.T) {
	path := writeModel(t, graphModel)

	out, err := executeCommand(t, "run", path, "--input", "0.9", "--from", "9")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "error:")
}

func TestRun_ToRequiresFrom(t *testing.T) {
	path := writeModel(t, graphModel)

	_, err := executeCommand(t, "run", path, "--input", "0.9", "--to", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_ShortestPath(t *testing.T) {
	path := writeModel(t, graphModel)

	out, err := executeCommand(t, "run", path, "--input", "0.9", "--from", "0", "--to", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "value: Value(true)")
}

func TestRun_PersistsWithDatabase(t *testing.T) {
	path := writeModel(t, singletonModel)
	dbPath := filepath.Join(t.TempDir(), "causant.db")

	opts := &RunOptions{
		RootOptions:    &RootOptions{Format: "text"},
		From:           -1,
		To:             -1,
		TokenGenerator: testutil.NewFixedTokenGenerator("run-test-1"),
	}
	cmd := newRunCommand(opts)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path, "--input", "0.7", "--db", dbPath})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "token: run-test-1")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), "run-test-1")
	require.NoError(t, err)
	assert.Equal(t, "humidity-check", run.Model)
	assert.Equal(t, "Value(0.7)", run.Input)
	assert.Equal(t, "Value(true)", run.Outcome.Value)
	require.Len(t, run.Entries, 2)
	assert.Equal(t, "input: Value(0.7)", run.Entries[0].Message)
}

func TestRun_InvalidModel(t *testing.T) {
	path := writeModel(t, "name: broken\nkind: swarm\nnodes:\n  - {id: 0, description: d, function: f}\n")

	_, err := executeCommand(t, "run", path, "--input", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
