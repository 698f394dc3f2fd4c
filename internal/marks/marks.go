package marks

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for mark pairs that cannot be turned into a percentage.
var ErrInvalidInput = errors.New("invalid input")

// Pair is an obtained/total mark pair as entered on a result card.
type Pair struct {
	Obtained float64 `json:"obtained"`
	Total    float64 `json:"total"`
}

// Normalize converts a pair into a percentage.
//
// The pair is rejected instead of producing NaN or an out-of-range value:
// total must be positive and obtained must lie in [0, total].
func Normalize(p Pair) (float64, error) {
	if math.IsNaN(p.Obtained) || math.IsInf(p.Obtained, 0) || math.IsNaN(p.Total) || math.IsInf(p.Total, 0) {
		return 0, fmt.Errorf("%w: marks must be finite numbers", ErrInvalidInput)
	}
	if p.Total <= 0 {
		return 0, fmt.Errorf("%w: total marks must be greater than zero", ErrInvalidInput)
	}
	if p.Obtained < 0 {
		return 0, fmt.Errorf("%w: obtained marks cannot be negative", ErrInvalidInput)
	}
	if p.Obtained > p.Total {
		return 0, fmt.Errorf("%w: obtained marks %g exceed total %g", ErrInvalidInput, p.Obtained, p.Total)
	}
	return p.Obtained / p.Total * 100, nil
}
