package chance

import (
	"math"
	"sort"

	"github.com/mind-engage/mindengage-merit/internal/refdata"
)

const (
	commentNoBands    = "No prediction data available for this program."
	commentOutOfRange = "Your score is outside the prediction range."
)

type Outcome struct {
	Rating  refdata.Rating `json:"rating"`
	Comment string         `json:"comment"`
}

// Classify returns the first band containing aggregate. Bands are scanned in
// ascending Min, then stored order among bands with equal Min. With
// overlapping bands the one with the lower Min wins even if it is stored later.
// An aggregate outside every band yields RatingUnknown.
func Classify(aggregate float64, bands []refdata.AdmissionChanceBand) Outcome {
	if len(bands) == 0 {
		return Outcome{Rating: refdata.RatingUnknown, Comment: commentNoBands}
	}
	if math.IsNaN(aggregate) {
		return Outcome{Rating: refdata.RatingUnknown, Comment: commentOutOfRange}
	}
	sorted := append([]refdata.AdmissionChanceBand(nil), bands...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })
	for _, b := range sorted {
		if b.Min <= aggregate && aggregate <= b.Max {
			return Outcome{Rating: b.Rating, Comment: b.Comment}
		}
	}
	return Outcome{Rating: refdata.RatingUnknown, Comment: commentOutOfRange}
}
