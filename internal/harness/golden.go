package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// snapshot converts a result to the map shape MarshalCanonical accepts.
// Empty error fields are omitted so success snapshots stay compact.
func snapshot(scenarioName string, result *Result) map[string]any {
	cases := make([]any, len(result.Cases))
	for i, cr := range result.Cases {
		caseMap := map[string]any{
			"input": cr.Input,
			"trace": cr.Trace,
		}
		if cr.Value != "" {
			caseMap["value"] = cr.Value
		}
		if cr.ErrorCode != "" {
			caseMap["error_code"] = cr.ErrorCode
			caseMap["error_message"] = cr.ErrorMessage
		}
		cases[i] = caseMap
	}
	return map[string]any{
		"scenario_name": scenarioName,
		"cases":         cases,
	}
}

// RunWithGolden executes a scenario and compares its canonical trace
// snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	data, err := MarshalCanonical(snapshot(scenario.Name, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
