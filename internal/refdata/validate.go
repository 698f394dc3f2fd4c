package refdata

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Validate checks the shape of a dataset. Hard violations are returned as an
// error; soft ones (weights not summing to 1, gaps or overlaps between bands)
// come back as warnings.
func Validate(ds Dataset) (warnings []string, err error) {
	var errs []error
	seenUni := map[string]bool{}
	for _, u := range ds.Universities {
		uid := strings.ToLower(u.ID)
		if uid == "" {
			errs = append(errs, errors.New("university.id is required"))
			continue
		}
		if seenUni[uid] {
			errs = append(errs, fmt.Errorf("duplicate university id: %s", u.ID))
		}
		seenUni[uid] = true

		seenProg := map[string]bool{}
		for _, p := range u.Programs {
			path := u.ID + "/" + p.ID
			pid := strings.ToLower(p.ID)
			if pid == "" {
				errs = append(errs, fmt.Errorf("program.id required in university %s", u.ID))
				continue
			}
			if seenProg[pid] {
				errs = append(errs, fmt.Errorf("duplicate program id %s in university %s", p.ID, u.ID))
			}
			seenProg[pid] = true

			f := p.Formula
			for name, w := range map[string]float64{"matriculation": f.Matriculation, "intermediate": f.Intermediate, "entryTest": f.EntryTest} {
				if math.IsNaN(w) || w < 0 || w > 1 {
					errs = append(errs, fmt.Errorf("%s: formula.%s must be in [0,1], got %g", path, name, w))
				}
			}
			if math.Abs(f.Sum()-1) > 1e-6 {
				warnings = append(warnings, fmt.Sprintf("%s: formula weights sum to %g", path, f.Sum()))
			}
			mc := p.MinimumCriteria
			if mc.Matriculation < 0 || mc.Intermediate < 0 || mc.EntryTest < 0 {
				errs = append(errs, fmt.Errorf("%s: minimum criteria cannot be negative", path))
			}

			for i, b := range p.AdmissionChances {
				if b.Min > b.Max {
					errs = append(errs, fmt.Errorf("%s: band %d has min %g > max %g", path, i, b.Min, b.Max))
				}
				if !b.Rating.Valid() {
					errs = append(errs, fmt.Errorf("%s: band %d has unknown rating %q", path, i, b.Rating))
				}
			}
			warnings = append(warnings, bandWarnings(path, p.AdmissionChances)...)
		}
	}

	seenTable := map[string]bool{}
	for _, t := range ds.MeritTables {
		tid := strings.ToLower(t.ID)
		if tid == "" {
			errs = append(errs, errors.New("meritTable.id is required"))
			continue
		}
		if seenTable[tid] {
			errs = append(errs, fmt.Errorf("duplicate merit table id: %s", t.ID))
		}
		seenTable[tid] = true
		for _, c := range t.Campuses {
			for _, e := range c.Programs {
				if e.ProgramName == "" {
					errs = append(errs, fmt.Errorf("merit table %s/%s: program name is required", t.ID, c.Campus))
				}
				if !e.Merit.IsNumber() && strings.TrimSpace(e.Merit.Text) == "" {
					errs = append(errs, fmt.Errorf("merit table %s/%s: %s has no merit value", t.ID, c.Campus, e.ProgramName))
				}
			}
		}
	}

	for _, tp := range ds.TestPatterns {
		if tp.ID == "" {
			errs = append(errs, errors.New("testPattern.id is required"))
			continue
		}
		n := 0
		for _, s := range tp.Pattern.Subjects {
			n += s.MCQs
		}
		if n != tp.Pattern.TotalMCQs {
			warnings = append(warnings, fmt.Sprintf("test pattern %s: subjects add up to %d MCQs, total says %d", tp.ID, n, tp.Pattern.TotalMCQs))
		}
	}
	return warnings, errors.Join(errs...)
}

// bandWarnings reports overlapping bands. Gaps are expected when bands use
// whole-number bounds (84 then 85) and are not reported.
func bandWarnings(path string, bands []AdmissionChanceBand) []string {
	if len(bands) < 2 {
		return nil
	}
	sorted := append([]AdmissionChanceBand(nil), bands...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })
	var out []string
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Min <= sorted[i-1].Max {
			out = append(out, fmt.Sprintf("%s: bands %q and %q overlap", path, sorted[i-1].Rating, sorted[i].Rating))
		}
	}
	return out
}
