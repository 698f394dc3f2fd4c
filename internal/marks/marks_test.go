package marks_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-merit/internal/marks"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		obtained, total float64
	}{
		{0, 1100},
		{950, 1100},
		{1100, 1100},
		{143.5, 200},
		{1, 3},
	}
	for _, tc := range cases {
		got, err := marks.Normalize(marks.Pair{Obtained: tc.obtained, Total: tc.total})
		require.NoError(t, err)
		assert.Equal(t, tc.obtained/tc.total*100, got)
	}
}

func TestNormalize_Rejects(t *testing.T) {
	cases := map[string]marks.Pair{
		"zero total":     {Obtained: 0, Total: 0},
		"negative total": {Obtained: 10, Total: -5},
		"negative marks": {Obtained: -1, Total: 100},
		"over total":     {Obtained: 101, Total: 100},
		"nan":            {Obtained: math.NaN(), Total: 100},
		"inf total":      {Obtained: 10, Total: math.Inf(1)},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := marks.Normalize(p)
			assert.ErrorIs(t, err, marks.ErrInvalidInput)
		})
	}
}
