package calculator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-merit/internal/aggregate"
	"github.com/mind-engage/mindengage-merit/internal/calculator"
	"github.com/mind-engage/mindengage-merit/internal/formats"
	"github.com/mind-engage/mindengage-merit/internal/marks"
	"github.com/mind-engage/mindengage-merit/internal/refdata"
)

func newService(t *testing.T, opts ...calculator.Option) *calculator.Service {
	t.Helper()
	ds, err := refdata.Default()
	require.NoError(t, err)
	opts = append([]calculator.Option{calculator.WithLogger(zerolog.Nop())}, opts...)
	return calculator.New(refdata.NewCatalog(ds), opts...)
}

func fastRequest() calculator.Request {
	return calculator.Request{
		UniversityID:    "fast",
		ProgramID:       "cs",
		EducationSystem: aggregate.FSc,
		Inputs: aggregate.Inputs{
			Matriculation: marks.Pair{Obtained: 1000, Total: 1100},
			Intermediate:  marks.Pair{Obtained: 900, Total: 1100},
			EntryTest:     marks.Pair{Obtained: 70, Total: 100},
		},
	}
}

func TestCalculate(t *testing.T) {
	svc := newService(t)
	res, err := svc.Calculate(context.Background(), fastRequest())
	require.NoError(t, err)

	assert.Equal(t, "fast", res.UniversityID)
	assert.InDelta(t, 76.818, res.Aggregate, 1e-3)
	assert.Equal(t, refdata.RatingHigh, res.AdmissionChance.Rating)
	assert.Equal(t, "Good chances in most campuses", res.AdmissionChance.Comment)
	assert.Empty(t, res.BelowMinimum)
	assert.Nil(t, res.Eligible)
}

func TestCalculate_WithEligibility(t *testing.T) {
	svc := newService(t)
	req := fastRequest()
	req.IncludeEligibility = true
	req.EligibilityUniversityID = "fast"

	res, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Eligible, 3)
	for _, g := range res.Eligible {
		assert.Equal(t, "fast", g.UniversityID)
	}
}

func TestCalculate_BelowMinimumIsReportedNotBlocking(t *testing.T) {
	svc := newService(t)
	req := fastRequest()
	req.EntryTest = marks.Pair{Obtained: 40, Total: 100}

	res, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"entryTest"}, res.BelowMinimum)
	assert.Greater(t, res.Aggregate, 0.0)
}

func TestCalculate_Errors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	req := fastRequest()
	req.ProgramID = "medicine"
	_, err := svc.Calculate(ctx, req)
	assert.ErrorIs(t, err, calculator.ErrProgramNotFound)

	req = fastRequest()
	req.UniversityID = "nowhere"
	_, err = svc.Calculate(ctx, req)
	assert.ErrorIs(t, err, calculator.ErrProgramNotFound)

	req = fastRequest()
	req.Intermediate = marks.Pair{Obtained: 1200, Total: 1100}
	_, err = svc.Calculate(ctx, req)
	assert.ErrorIs(t, err, marks.ErrInvalidInput)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Calculate(cancelled, fastRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculate_NoBandsIsUnknown(t *testing.T) {
	svc := newService(t)
	req := fastRequest()
	req.UniversityID, req.ProgramID = "pu", "bsit"

	res, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, refdata.RatingUnknown, res.AdmissionChance.Rating)
	assert.Equal(t, "No prediction data available for this program.", res.AdmissionChance.Comment)
}

func TestCalculate_CustomEvaluator(t *testing.T) {
	svc := newService(t, calculator.WithEvaluator(aggregate.New(aggregate.WithDefaultPolicy(aggregate.Policy{ALevelBonus: 1}))))
	req := fastRequest()
	fsc, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)

	req.EducationSystem = aggregate.ALevel
	alevel, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, fsc.Aggregate, alevel.Aggregate)
}

func TestEligible(t *testing.T) {
	svc := newService(t)
	groups := svc.Eligible(50, "")
	// rank-based tables are always listed
	ids := map[string]bool{}
	for _, g := range groups {
		ids[g.UniversityID] = true
	}
	assert.True(t, ids["nust"])
	assert.True(t, ids["giki"])
	assert.False(t, ids["pu"])
}

func TestScoreNUTest(t *testing.T) {
	svc := newService(t)
	score, err := svc.ScoreNUTest(map[string]formats.Attempt{
		"advancedMaths": {Attempted: 40, Correct: 30},
		"english":       {Attempted: 20, Correct: 15},
	})
	require.NoError(t, err)
	assert.Equal(t, 32.04, score)

	_, err = svc.ScoreNUTest(map[string]formats.Attempt{"iq": {Attempted: 5, Correct: 6}})
	var verrs formats.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "iq_correct")
}
