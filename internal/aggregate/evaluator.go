package aggregate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/mind-engage/mindengage-merit/internal/marks"
	"github.com/mind-engage/mindengage-merit/internal/refdata"
)

type EducationSystem string

const (
	FSc    EducationSystem = "FSc"
	ALevel EducationSystem = "A-Level"
)

func (s EducationSystem) Valid() bool { return s == FSc || s == ALevel }

// Inputs are the raw mark pairs entered by the candidate.
type Inputs struct {
	Matriculation marks.Pair `json:"matriculation"`
	Intermediate  marks.Pair `json:"intermediate"`
	EntryTest     marks.Pair `json:"entryTest"`
}

// Result is the breakdown of one calculation. Contributions are the weighted
// percentages before any A-Level bonus; Aggregate is the final value in [0,100].
type Result struct {
	MatriculationContribution float64 `json:"matriculationContribution"`
	IntermediateContribution  float64 `json:"intermediateContribution"`
	EntryTestContribution     float64 `json:"entryTestContribution"`
	Aggregate                 float64 `json:"aggregate"`
}

// Evaluator applies program formulas together with per-university A-Level
// policies. The zero value is not usable; construct with New.
type Evaluator struct {
	policies map[string]Policy
	fallback Policy
}

type Option func(*Evaluator)

// WithPolicy adds or replaces the policy for one university.
func WithPolicy(universityID string, p Policy) Option {
	return func(e *Evaluator) { e.policies[policyKey(universityID)] = p }
}

// WithDefaultPolicy changes the policy used for universities without an override.
func WithDefaultPolicy(p Policy) Option { return func(e *Evaluator) { e.fallback = p } }

func New(opts ...Option) *Evaluator {
	e := &Evaluator{policies: DefaultPolicies(), fallback: DefaultPolicy}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Policy returns the policy in effect for universityID.
func (e *Evaluator) Policy(universityID string) Policy {
	if p, ok := e.policies[policyKey(universityID)]; ok {
		return p
	}
	return e.fallback
}

// Compute normalizes the inputs and applies formula f. Errors wrap marks.ErrInvalidInput.
func (e *Evaluator) Compute(in Inputs, f refdata.Formula, sys EducationSystem, universityID string) (Result, error) {
	if !sys.Valid() {
		return Result{}, fmt.Errorf("%w: unknown education system %q", marks.ErrInvalidInput, sys)
	}
	pct := make([]float64, 3)
	for i, p := range []struct {
		name string
		pair marks.Pair
	}{{"matriculation", in.Matriculation}, {"intermediate", in.Intermediate}, {"entry test", in.EntryTest}} {
		v, err := marks.Normalize(p.pair)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", p.name, err)
		}
		pct[i] = v
	}

	weights := []float64{f.Matriculation, f.Intermediate, f.EntryTest}
	multiplier := 1.0
	if sys == ALevel {
		pol := e.Policy(universityID)
		if pol.replacesMatric() {
			weights[0] = pol.ALevelMatricWeight
		}
		multiplier = pol.bonus()
	}

	contrib := make([]float64, 3)
	floats.MulTo(contrib, pct, weights)
	total := floats.Sum(contrib) * multiplier

	return Result{
		MatriculationContribution: contrib[0],
		IntermediateContribution:  contrib[1],
		EntryTestContribution:     contrib[2],
		Aggregate:                 clamp(total, 0, 100),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
