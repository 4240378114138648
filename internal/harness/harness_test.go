package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/humidity-basic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "humidity-basic", s.Name)
	assert.Equal(t, filepath.Join("testdata", "models", "humidity.yaml"), s.Model)
	require.Len(t, s.Cases, 2)
	assert.Equal(t, 0.7, s.Cases[0].Input)
	require.NotNil(t, s.Cases[0].Expect)
	assert.Equal(t, "Value(true)", s.Cases[0].Expect.Value)
}

func TestLoadScenario_Invalid(t *testing.T) {
	writeScenario := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "scenario.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"unknown field rejected",
			"name: s\ndescription: d\nmodel: m.yaml\ncase:\n  - input: 1\n",
			"parse scenario",
		},
		{
			"missing model file",
			"name: s\ndescription: d\nmodel: /nonexistent/m.yaml\ncases:\n  - input: 1\n",
			"model file not found",
		},
		{
			"to without from",
			"name: s\ndescription: d\nmodel: m.yaml\ncases:\n  - input: 1\n    to: 2\n",
			"to requires from",
		},
		{
			"empty expect",
			"name: s\ndescription: d\nmodel: m.yaml\ncases:\n  - input: 1\n    expect: {}\n",
			"value or error_code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Dir(writeScenario(t, tt.content))
			require.NoError(t, os.WriteFile(filepath.Join(dir, "m.yaml"), []byte(`
name: m
kind: singleton
nodes:
  - {id: 0, description: d, function: passthrough}
`), 0o644))

			_, err := LoadScenario(filepath.Join(dir, "scenario.yaml"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_PassingScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/humidity-basic.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Cases, 2)
	assert.Equal(t, "0.7", result.Cases[0].Input)
	assert.Equal(t, "Value(true)", result.Cases[0].Value)
	assert.Equal(t, []string{
		"[1] causaloid 0: input: Value(0.7)",
		"[2] causaloid 0: output: Value(true)",
	}, result.Cases[0].Trace)
}

func TestRun_ExpectMismatch(t *testing.T) {
	s := &Scenario{
		Name:        "mismatch",
		Description: "expected value does not match",
		Model:       "testdata/models/humidity.yaml",
		Cases: []Case{
			{Input: 0.7, Expect: &Expect{Value: "Value(false)"}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "cases[0]")
}

func TestRun_ErrorCase(t *testing.T) {
	from := 9
	s := &Scenario{
		Name:        "bad-start",
		Description: "subgraph evaluation from a node outside the graph",
		Model:       "testdata/models/chain.yaml",
		Cases: []Case{
			{Input: 0.9, From: &from, Expect: &Expect{ErrorCode: "NODE_NOT_FOUND"}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	require.Len(t, result.Cases, 1)
	assert.Equal(t, "NODE_NOT_FOUND", result.Cases[0].ErrorCode)
	assert.NotEmpty(t, result.Cases[0].ErrorMessage)
	assert.Empty(t, result.Cases[0].Value)
}

func TestRunWithGolden_HumidityBasic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/humidity-basic.yaml")
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s))
}

func TestRunWithGolden_ChainPropagation(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/chain-propagation.yaml")
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s))
}
