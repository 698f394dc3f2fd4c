package http

import (
	"fmt"
	"math"
	"net/http"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-merit/internal/aggregate"
	"github.com/mind-engage/mindengage-merit/internal/calculator"
	"github.com/mind-engage/mindengage-merit/internal/formats"
	"github.com/mind-engage/mindengage-merit/internal/marks"
)

type calculateRequest struct {
	UniversityID            string     `json:"university_id"`
	ProgramID               string     `json:"program_id"`
	EducationSystem         string     `json:"education_system"`
	Matriculation           marks.Pair `json:"matriculation"`
	Intermediate            marks.Pair `json:"intermediate"`
	EntryTest               marks.Pair `json:"entry_test"`
	IncludeEligibility      bool       `json:"include_eligibility"`
	EligibilityUniversityID string     `json:"eligibility_university_id"`
}

// CalculateHandler computes an aggregate and admission chance for one program.
// The response id is generated per call for client-side correlation only.
func CalculateHandler(svc *calculator.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calculateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		sys := aggregate.EducationSystem(req.EducationSystem)
		if sys == "" {
			sys = aggregate.FSc
		}
		res, err := svc.Calculate(r.Context(), calculator.Request{
			UniversityID:    req.UniversityID,
			ProgramID:       req.ProgramID,
			EducationSystem: sys,
			Inputs: aggregate.Inputs{
				Matriculation: req.Matriculation,
				Intermediate:  req.Intermediate,
				EntryTest:     req.EntryTest,
			},
			IncludeEligibility:      req.IncludeEligibility,
			EligibilityUniversityID: req.EligibilityUniversityID,
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"id": uuid.NewString(), "result": res})
	}
}

// EligibilityHandler lists programs whose historical merit is reachable.
func EligibilityHandler(svc *calculator.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Aggregate    *float64 `json:"aggregate"`
			UniversityID string   `json:"university_id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Aggregate == nil || math.IsNaN(*req.Aggregate) || math.IsInf(*req.Aggregate, 0) {
			respondError(w, r, fmt.Errorf("%w: aggregate is required", marks.ErrInvalidInput))
			return
		}
		respondJSON(w, http.StatusOK, svc.Eligible(*req.Aggregate, req.UniversityID))
	}
}

// NUTestPolicyHandler describes the sections and marking of the NU entry test.
func NUTestPolicyHandler(scorer formats.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, scorer.Policy())
	}
}

// NUTestScoreHandler converts section-wise MCQ counts into a raw NU test score.
func NUTestScoreHandler(svc *calculator.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Sections map[string]formats.Attempt `json:"sections"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		score, err := svc.ScoreNUTest(req.Sections)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]float64{"score": score})
	}
}
