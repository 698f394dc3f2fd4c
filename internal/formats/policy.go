package formats

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Policy holds the per-section marking scheme of a test.
type Policy struct {
	Profile  string    `json:"profile"`
	Sections []Section `json:"sections"`
}

// Section is one MCQ block with its own marking.
type Section struct {
	ID      string  `json:"id"`
	Title   string  `json:"title,omitempty"`
	MCQs    int     `json:"mcqs"`    // cap on attempted and correct
	Correct float64 `json:"correct"` // marks per correct answer
	Penalty float64 `json:"penalty"` // marks deducted per incorrect answer
}

// Attempt is what the candidate reports for one section.
type Attempt struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
}

// ValidatePolicy runs basic consistency checks.
func ValidatePolicy(pol *Policy) error {
	if pol == nil {
		return errors.New("policy is required")
	}
	seen := map[string]bool{}
	for _, s := range pol.Sections {
		if s.ID == "" {
			return errors.New("section.id is required")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate section id: %s", s.ID)
		}
		seen[s.ID] = true
		if s.MCQs <= 0 {
			return fmt.Errorf("section %s must have a positive MCQ count", s.ID)
		}
		if s.Penalty < 0 {
			return fmt.Errorf("section %s: penalty is a deduction and must not be negative", s.ID)
		}
	}
	return nil
}

// ValidationErrors maps a field key ("english_correct") to a message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks every attempt against the policy caps and collects all
// violations. Sections missing from attempts count as not attempted.
func (pol Policy) Validate(attempts map[string]Attempt) error {
	errs := ValidationErrors{}
	known := map[string]bool{}
	for _, s := range pol.Sections {
		known[s.ID] = true
		a := attempts[s.ID]
		if a.Attempted < 0 || a.Attempted > s.MCQs {
			errs[s.ID+"_attempted"] = fmt.Sprintf("Must be between 0 and %d", s.MCQs)
		}
		if a.Correct < 0 || a.Correct > a.Attempted {
			errs[s.ID+"_correct"] = fmt.Sprintf("Must be between 0 and %d", max(a.Attempted, 0))
		}
		if a.Correct > s.MCQs {
			errs[s.ID+"_correct"] = fmt.Sprintf("Cannot exceed %d", s.MCQs)
		}
	}
	for id := range attempts {
		if !known[id] {
			errs[id] = "Unknown section"
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
