package nu_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-merit/internal/formats"
	"github.com/mind-engage/mindengage-merit/internal/formats/nu"
)

func TestRegistered(t *testing.T) {
	s, ok := formats.Lookup(nu.Profile)
	require.True(t, ok)
	assert.Len(t, s.Policy().Sections, 4)
	assert.NoError(t, formats.ValidatePolicy(func() *formats.Policy { p := s.Policy(); return &p }()))
}

func TestBreakdown(t *testing.T) {
	parts, err := nu.New().Breakdown(map[string]formats.Attempt{
		"advancedMaths": {Attempted: 40, Correct: 30},
		"english":       {Attempted: 20, Correct: 15},
	})
	require.NoError(t, err)
	assert.Equal(t, 27.5, parts["advancedMaths"])
	assert.Equal(t, 4.5375, parts["english"])
	assert.Equal(t, 0.0, parts["iq"])
}

func TestScore(t *testing.T) {
	s := nu.New()

	got, err := s.Score(map[string]formats.Attempt{"advancedMaths": {Attempted: 40, Correct: 30}})
	require.NoError(t, err)
	assert.Equal(t, 27.5, got)

	got, err = s.Score(map[string]formats.Attempt{"english": {Attempted: 20, Correct: 15}})
	require.NoError(t, err)
	assert.Equal(t, 4.54, got)

	got, err = s.Score(map[string]formats.Attempt{
		"advancedMaths": {Attempted: 40, Correct: 30},
		"basicMaths":    {Attempted: 20, Correct: 12},
		"iq":            {Attempted: 15, Correct: 15},
		"english":       {Attempted: 20, Correct: 15},
	})
	require.NoError(t, err)
	// 27.5 + 10 + 15 + 4.5375
	assert.Equal(t, 57.04, got)

	got, err = s.Score(map[string]formats.Attempt{
		"advancedMaths": {}, "basicMaths": {}, "iq": {}, "english": {},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestScore_FloorAtZero(t *testing.T) {
	got, err := nu.New().Score(map[string]formats.Attempt{
		"advancedMaths": {Attempted: 50, Correct: 0},
		"iq":            {Attempted: 4, Correct: 4},
	})
	require.NoError(t, err)
	// -12.5 + 4 is below zero
	assert.Equal(t, 0.0, got)
}

func TestScore_Validation(t *testing.T) {
	_, err := nu.New().Score(map[string]formats.Attempt{
		"advancedMaths": {Attempted: 10, Correct: 15},
		"english":       {Attempted: 31, Correct: 31},
		"iq":            {Attempted: -1},
		"physics":       {Attempted: 1},
	})
	require.Error(t, err)

	var verrs formats.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Must be between 0 and 10", verrs["advancedMaths_correct"])
	assert.Equal(t, "Must be between 0 and 30", verrs["english_attempted"])
	assert.Equal(t, "Cannot exceed 30", verrs["english_correct"])
	assert.Equal(t, "Must be between 0 and 20", verrs["iq_attempted"])
	assert.Contains(t, verrs, "physics")
	assert.NotContains(t, verrs, "basicMaths_attempted")
}
