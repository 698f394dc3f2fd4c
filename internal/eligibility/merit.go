package eligibility

import (
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-merit/internal/refdata"
)

type Kind int

const (
	Unparsed  Kind = iota
	Numeric        // 75
	Range          // "80-82"
	RankRatio      // "447/5360", merit-list position out of applicants
	Rank           // "#324"
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Range:
		return "range"
	case RankRatio:
		return "rank_ratio"
	case Rank:
		return "rank"
	}
	return "unparsed"
}

// Comparable reports whether the value can be compared with a percentage aggregate.
func (k Kind) Comparable() bool { return k == Numeric || k == Range }

// MeritValue is a parsed merit cutoff. Min is set for Numeric and Range,
// Max for Range, Position/Pool for the rank forms when they parse.
type MeritValue struct {
	Kind     Kind
	Min      float64
	Max      float64
	Position int
	Pool     int
	Raw      string
}

// ParseMerit classifies a published merit value. String forms are checked in
// order: contains "-", contains "/", starts with "#". Anything else is Unparsed.
func ParseMerit(m refdata.Merit) MeritValue {
	if m.IsNumber() {
		return MeritValue{Kind: Numeric, Min: *m.Number, Max: *m.Number, Raw: m.String()}
	}
	s := strings.TrimSpace(m.Text)
	mv := MeritValue{Raw: m.Text}
	switch {
	case strings.Contains(s, "-"):
		parts := strings.SplitN(s, "-", 2)
		lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return mv
		}
		mv.Kind, mv.Min, mv.Max = Range, lo, lo
		if hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			mv.Max = hi
		}
	case strings.Contains(s, "/"):
		mv.Kind = RankRatio
		parts := strings.SplitN(s, "/", 2)
		mv.Position, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
		mv.Pool, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	case strings.HasPrefix(s, "#"):
		mv.Kind = Rank
		mv.Position, _ = strconv.Atoi(strings.TrimSpace(s[1:]))
	}
	return mv
}
