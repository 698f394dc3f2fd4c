// Package nu scores the FAST-NU entry test from section-wise MCQ counts.
package nu

import (
	"github.com/shopspring/decimal"

	"github.com/mind-engage/mindengage-merit/internal/formats"
)

const Profile = "nu.v1"

func init() {
	formats.Register(Profile, New())
}

// English carries a third of a mark per MCQ; its penalty keeps the same
// 25% ratio as the other sections.
var defaultPolicy = formats.Policy{
	Profile: Profile,
	Sections: []formats.Section{
		{ID: "advancedMaths", Title: "Advanced Maths", MCQs: 50, Correct: 1, Penalty: 0.25},
		{ID: "basicMaths", Title: "Basic Maths", MCQs: 20, Correct: 1, Penalty: 0.25},
		{ID: "iq", Title: "IQ", MCQs: 20, Correct: 1, Penalty: 0.25},
		{ID: "english", Title: "English", MCQs: 30, Correct: 0.33, Penalty: 0.0825},
	},
}

type Scorer struct {
	policy formats.Policy
}

func New() *Scorer {
	pol := defaultPolicy
	pol.Sections = append([]formats.Section(nil), defaultPolicy.Sections...)
	return &Scorer{policy: pol}
}

func (s *Scorer) Policy() formats.Policy {
	pol := s.policy
	pol.Sections = append([]formats.Section(nil), s.policy.Sections...)
	return pol
}

// Score validates attempts, sums the section scores, floors the total at
// zero and rounds it to two decimals. Individual sections may be negative.
func (s *Scorer) Score(attempts map[string]formats.Attempt) (float64, error) {
	if err := s.policy.Validate(attempts); err != nil {
		return 0, err
	}
	total := decimal.Zero
	for _, sec := range s.policy.Sections {
		total = total.Add(sectionScore(sec, attempts[sec.ID]))
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(2).InexactFloat64(), nil
}

// Breakdown returns the unrounded score of every section.
func (s *Scorer) Breakdown(attempts map[string]formats.Attempt) (map[string]float64, error) {
	if err := s.policy.Validate(attempts); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(s.policy.Sections))
	for _, sec := range s.policy.Sections {
		out[sec.ID] = sectionScore(sec, attempts[sec.ID]).InexactFloat64()
	}
	return out, nil
}

func sectionScore(sec formats.Section, a formats.Attempt) decimal.Decimal {
	correct := decimal.NewFromInt(int64(a.Correct))
	incorrect := decimal.NewFromInt(int64(a.Attempted - a.Correct))
	return correct.Mul(decimal.NewFromFloat(sec.Correct)).
		Sub(incorrect.Mul(decimal.NewFromFloat(sec.Penalty)))
}
