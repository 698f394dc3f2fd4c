package refdata

import "strings"

// Catalog is the read-only view of a dataset used at request time.
// It is built once and safe for concurrent use.
type Catalog struct {
	version      string
	universities []University
	byID         map[string]int
	meritTables  []UniversityMeritTable
	testPatterns []UniversityTestPattern
}

func NewCatalog(ds Dataset) *Catalog {
	c := &Catalog{
		version:      ds.Version,
		universities: cloneUniversities(ds.Universities),
		byID:         make(map[string]int, len(ds.Universities)),
		meritTables:  append([]UniversityMeritTable(nil), ds.MeritTables...),
		testPatterns: append([]UniversityTestPattern(nil), ds.TestPatterns...),
	}
	for i, u := range c.universities {
		c.byID[strings.ToLower(u.ID)] = i
	}
	return c
}

func (c *Catalog) Version() string { return c.version }

// Universities returns a copy of all universities in dataset order.
func (c *Catalog) Universities() []University {
	return cloneUniversities(c.universities)
}

func (c *Catalog) University(id string) (University, bool) {
	i, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return University{}, false
	}
	return c.universities[i].clone(), true
}

func (c *Catalog) Program(universityID, programID string) (University, Program, bool) {
	u, ok := c.University(universityID)
	if !ok {
		return University{}, Program{}, false
	}
	pid := strings.ToLower(strings.TrimSpace(programID))
	for _, p := range u.Programs {
		if strings.ToLower(p.ID) == pid {
			return u, p.clone(), true
		}
	}
	return u, Program{}, false
}

// MeritTables returns all tables, or only the one matching universityID when it is set.
func (c *Catalog) MeritTables(universityID string) []UniversityMeritTable {
	uid := strings.ToLower(strings.TrimSpace(universityID))
	if uid == "" {
		return append([]UniversityMeritTable(nil), c.meritTables...)
	}
	var out []UniversityMeritTable
	for _, t := range c.meritTables {
		if strings.ToLower(t.ID) == uid {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) TestPatterns() []UniversityTestPattern {
	return append([]UniversityTestPattern(nil), c.testPatterns...)
}

func cloneUniversities(us []University) []University {
	if us == nil {
		return nil
	}
	out := make([]University, len(us))
	for i, u := range us {
		out[i] = u.clone()
	}
	return out
}

// clone copies the program list; merit history and estimates are descriptive
// and shared.
func (u University) clone() University {
	if u.Programs != nil {
		progs := make([]Program, len(u.Programs))
		for i, p := range u.Programs {
			progs[i] = p.clone()
		}
		u.Programs = progs
	}
	return u
}

func (p Program) clone() Program {
	if p.TestOptions != nil {
		p.TestOptions = append([]string(nil), p.TestOptions...)
	}
	if p.AdmissionChances != nil {
		p.AdmissionChances = append([]AdmissionChanceBand(nil), p.AdmissionChances...)
	}
	return p
}
