package eligibility

import (
	"strings"

	"github.com/mind-engage/mindengage-merit/internal/refdata"
)

const (
	// Tolerance is how far below a historical cutoff a candidate may be and still be listed.
	Tolerance = 2.0
	// HighMargin is how far above a cutoff counts as a comfortable pass.
	HighMargin = 3.0
)

type Status string

const (
	StatusHigh   Status = "High"
	StatusMedium Status = "Medium"
	StatusLow    Status = "Low"
)

// Program is a merit entry the candidate is eligible for.
type Program struct {
	refdata.MeritEntry
	Kind              string `json:"meritKind"`
	EligibilityStatus Status `json:"eligibilityStatus"`
}

// Group holds the eligible programs of one campus.
type Group struct {
	UniversityID string    `json:"universityId"`
	University   string    `json:"university"`
	Campus       string    `json:"campus"`
	Programs     []Program `json:"programs"`
}

type entry struct {
	src   refdata.MeritEntry
	merit MeritValue
}

type campus struct {
	name    string
	entries []entry
}

type table struct {
	id, key, name string
	campuses      []campus
}

// Index holds merit tables with every value already parsed.
// It is immutable after NewIndex and safe for concurrent use.
type Index struct {
	tables []table
}

func NewIndex(tables []refdata.UniversityMeritTable) *Index {
	idx := &Index{tables: make([]table, 0, len(tables))}
	for _, t := range tables {
		tt := table{id: t.ID, key: strings.ToLower(t.ID), name: t.Name}
		for _, c := range t.Campuses {
			cc := campus{name: c.Campus, entries: make([]entry, 0, len(c.Programs))}
			for _, e := range c.Programs {
				cc.entries = append(cc.entries, entry{src: e, merit: ParseMerit(e.Merit)})
			}
			tt.campuses = append(tt.campuses, cc)
		}
		idx.tables = append(idx.tables, tt)
	}
	return idx
}

// Match lists, per campus, the programs whose historical merit is within
// Tolerance of aggregate. Rank-based merits are always listed. Campuses with
// no eligible program are left out. universityID, when set, restricts the scan.
func (idx *Index) Match(aggregate float64, universityID string) []Group {
	filter := strings.ToLower(strings.TrimSpace(universityID))
	out := []Group{}
	for _, t := range idx.tables {
		if filter != "" && t.key != filter {
			continue
		}
		for _, c := range t.campuses {
			var progs []Program
			for _, e := range c.entries {
				if !Eligible(aggregate, e.merit) {
					continue
				}
				progs = append(progs, Program{
					MeritEntry:        e.src,
					Kind:              e.merit.Kind.String(),
					EligibilityStatus: StatusOf(aggregate, e.merit),
				})
			}
			if len(progs) == 0 {
				continue
			}
			out = append(out, Group{UniversityID: t.id, University: t.name, Campus: c.name, Programs: progs})
		}
	}
	return out
}

// Eligible applies the inclusion policy for a single merit value.
func Eligible(aggregate float64, m MeritValue) bool {
	switch m.Kind {
	case Numeric, Range:
		return aggregate >= m.Min-Tolerance
	case RankRatio, Rank:
		return true
	}
	return false
}

// StatusOf rates aggregate against a merit value. Non-comparable merits are Medium.
func StatusOf(aggregate float64, m MeritValue) Status {
	if !m.Kind.Comparable() {
		return StatusMedium
	}
	diff := aggregate - m.Min
	switch {
	case diff >= HighMargin:
		return StatusHigh
	case diff >= 0:
		return StatusMedium
	}
	return StatusLow
}
