package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/causant/internal/effect"
	"github.com/roach88/causant/internal/modelspec"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expect clause matched.
	Pass bool

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult

	// Errors lists expect clause mismatches. Empty when Pass is true.
	Errors []string
}

// CaseResult captures one case's outcome and propagation trace. All
// fields are rendered strings so the snapshot stays canonical-JSON
// friendly.
type CaseResult struct {
	Input        string
	Value        string
	ErrorCode    string
	ErrorMessage string
	Trace        []string
}

// AddError records an expect mismatch and fails the result.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run loads and compiles the scenario's model, evaluates every case,
// and validates expect clauses. A case whose evaluation fails still
// produces a CaseResult; only expect mismatches fail the run.
func Run(scenario *Scenario) (*Result, error) {
	doc, err := modelspec.LoadFile(scenario.Model)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	c, err := modelspec.Compile(doc, modelspec.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := &Result{Pass: true}
	for i, tc := range scenario.Cases {
		in := effect.Pure(tc.Input)

		var res *effect.PropagatingEffect
		switch {
		case tc.To != nil:
			res = c.EvaluateShortestPathBetweenCauses(*tc.From, *tc.To, in)
		case tc.From != nil:
			res = c.EvaluateSubgraphFromCause(*tc.From, in)
		default:
			res = c.Evaluate(in)
		}

		cr := CaseResult{
			Input: strconv.FormatFloat(tc.Input, 'g', -1, 64),
			Trace: strings.Split(res.Explain(), "\n"),
		}
		if err := res.Err(); err != nil {
			cr.ErrorCode = string(effect.CodeOf(err))
			cr.ErrorMessage = err.Error()
		} else {
			cr.Value = effect.RenderValue(res.Value())
		}
		result.Cases = append(result.Cases, cr)

		if tc.Expect != nil {
			checkExpect(result, i, tc.Expect, cr)
		}
	}
	return result, nil
}

func checkExpect(result *Result, index int, expect *Expect, cr CaseResult) {
	if expect.Value != "" && cr.Value != expect.Value {
		if cr.ErrorCode != "" {
			result.AddError("cases[%d]: expected value %s, got error %s: %s",
				index, expect.Value, cr.ErrorCode, cr.ErrorMessage)
		} else {
			result.AddError("cases[%d]: expected value %s, got %s", index, expect.Value, cr.Value)
		}
	}
	if expect.ErrorCode != "" && cr.ErrorCode != expect.ErrorCode {
		result.AddError("cases[%d]: expected error code %s, got %q", index, expect.ErrorCode, cr.ErrorCode)
	}
}
