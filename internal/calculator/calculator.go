// Package calculator ties reference data to the aggregate evaluator, the
// admission-chance classifier, the eligibility matcher and the entry-test
// scorers.
package calculator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mind-engage/mindengage-merit/internal/aggregate"
	"github.com/mind-engage/mindengage-merit/internal/chance"
	"github.com/mind-engage/mindengage-merit/internal/eligibility"
	"github.com/mind-engage/mindengage-merit/internal/formats"
	"github.com/mind-engage/mindengage-merit/internal/formats/nu"
	"github.com/mind-engage/mindengage-merit/internal/marks"
	"github.com/mind-engage/mindengage-merit/internal/refdata"
)

var ErrProgramNotFound = errors.New("program not found")

type Request struct {
	UniversityID    string
	ProgramID       string
	EducationSystem aggregate.EducationSystem
	aggregate.Inputs

	IncludeEligibility      bool
	EligibilityUniversityID string // empty scans every university
}

type Result struct {
	aggregate.Result
	UniversityID    string              `json:"universityId"`
	ProgramID       string              `json:"programId"`
	AdmissionChance chance.Outcome      `json:"admissionChance"`
	BelowMinimum    []string            `json:"belowMinimum,omitempty"`
	Eligible        []eligibility.Group `json:"eligible,omitempty"`
}

// Service is safe for concurrent use once constructed.
type Service struct {
	catalog   *refdata.Catalog
	evaluator *aggregate.Evaluator
	index     *eligibility.Index
	log       zerolog.Logger
}

type Option func(*Service)

func WithEvaluator(e *aggregate.Evaluator) Option { return func(s *Service) { s.evaluator = e } }
func WithLogger(l zerolog.Logger) Option         { return func(s *Service) { s.log = l } }

func New(catalog *refdata.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		evaluator: aggregate.New(),
		index:     eligibility.NewIndex(catalog.MeritTables("")),
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Catalog() *refdata.Catalog { return s.catalog }

// Calculate computes the aggregate for one program and rates it.
func (s *Service) Calculate(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	u, p, ok := s.catalog.Program(req.UniversityID, req.ProgramID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s/%s", ErrProgramNotFound, req.UniversityID, req.ProgramID)
	}

	agg, err := s.evaluator.Compute(req.Inputs, p.Formula, req.EducationSystem, u.ID)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Result:          agg,
		UniversityID:    u.ID,
		ProgramID:       p.ID,
		AdmissionChance: chance.Classify(agg.Aggregate, p.AdmissionChances),
		BelowMinimum:    belowMinimum(req.Inputs, p.MinimumCriteria),
	}
	if req.IncludeEligibility {
		res.Eligible = s.index.Match(agg.Aggregate, req.EligibilityUniversityID)
	}

	s.log.Debug().
		Str("university", u.ID).
		Str("program", p.ID).
		Str("system", string(req.EducationSystem)).
		Float64("aggregate", agg.Aggregate).
		Str("rating", string(res.AdmissionChance.Rating)).
		Strs("below_minimum", res.BelowMinimum).
		Msg("aggregate calculated")
	return res, nil
}

// Eligible lists programs reachable with agg, optionally for one university.
func (s *Service) Eligible(agg float64, universityID string) []eligibility.Group {
	groups := s.index.Match(agg, universityID)
	s.log.Debug().Float64("aggregate", agg).Str("university", universityID).Int("groups", len(groups)).Msg("eligibility matched")
	return groups
}

// ScoreNUTest scores FAST-NU entry test sections with the registered nu profile.
func (s *Service) ScoreNUTest(sections map[string]formats.Attempt) (float64, error) {
	sc, ok := formats.Lookup(nu.Profile)
	if !ok {
		return 0, fmt.Errorf("scorer %s not registered", nu.Profile)
	}
	score, err := sc.Score(sections)
	if err != nil {
		return 0, err
	}
	s.log.Debug().Float64("score", score).Msg("nu test scored")
	return score, nil
}

// belowMinimum reports the components under the program's minimum
// percentages. Inputs have already passed normalization.
func belowMinimum(in aggregate.Inputs, crit refdata.MinimumCriteria) []string {
	var out []string
	for _, c := range []struct {
		name string
		pair marks.Pair
		min  float64
	}{
		{"matriculation", in.Matriculation, crit.Matriculation},
		{"intermediate", in.Intermediate, crit.Intermediate},
		{"entryTest", in.EntryTest, crit.EntryTest},
	} {
		pct, err := marks.Normalize(c.pair)
		if err == nil && pct < c.min {
			out = append(out, c.name)
		}
	}
	return out
}
