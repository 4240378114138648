package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/causant/internal/effect"
	"github.com/roach88/causant/internal/store"
)

// seedDatabase writes two runs and returns the database path.
func seedDatabase(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "causant.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.WriteRun(ctx, store.Run{
		Token:   "run-a",
		Model:   "humidity-check",
		Input:   "Value(0.7)",
		Outcome: store.Outcome{Value: "Value(true)"},
		Entries: []effect.Entry{
			{Seq: 1, CausaloidID: 0, Message: "input: Value(0.7)"},
			{Seq: 2, CausaloidID: 0, Message: "output: Value(true)"},
		},
	}))
	require.NoError(t, st.WriteRun(ctx, store.Run{
		Token:   "run-b",
		Model:   "humidity-check",
		Input:   "Value(0.2)",
		Outcome: store.Outcome{Value: "Value(false)"},
		Entries: []effect.Entry{
			{Seq: 1, CausaloidID: 0, Message: "input: Value(0.2)"},
			{Seq: 2, CausaloidID: 0, Message: "output: Value(false)"},
		},
	}))
	return dbPath
}

func TestReplay_RendersTrace(t *testing.T) {
	dbPath := seedDatabase(t)

	out, err := executeCommand(t, "replay", "--db", dbPath, "--token", "run-a")
	require.NoError(t, err)
	assert.Contains(t, out, "run: run-a")
	assert.Contains(t, out, "model: humidity-check")
	assert.Contains(t, out, "input: Value(0.7)")
	assert.Contains(t, out, "value: Value(true)")
	assert.Contains(t, out, "[1] causaloid 0: input: Value(0.7)")
	assert.Contains(t, out, "[2] causaloid 0: output: Value(true)")
}

func TestReplay_UnknownToken(t *testing.T) {
	dbPath := seedDatabase(t)

	out, err := executeCommand(t, "replay", "--db", dbPath, "--token", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "RUN_NOT_FOUND")
}

func TestReplay_MatchesOriginalRendering(t *testing.T) {
	dbPath := seedDatabase(t)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	explain, err := st.ReplayExplain(context.Background(), "run-b")
	require.NoError(t, err)

	out, err := executeCommand(t, "replay", "--db", dbPath, "--token", "run-b")
	require.NoError(t, err)
	assert.Contains(t, out, explain)
}
