package refdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Formula holds the weight fractions applied to each percentage.
type Formula struct {
	Matriculation float64 `json:"matriculation"`
	Intermediate  float64 `json:"intermediate"`
	EntryTest     float64 `json:"entryTest"`
}

// Sum of the three weights; 1 for a well-formed program.
func (f Formula) Sum() float64 { return f.Matriculation + f.Intermediate + f.EntryTest }

// MinimumCriteria are per-component minimum percentages.
type MinimumCriteria struct {
	Matriculation float64 `json:"matriculation"`
	Intermediate  float64 `json:"intermediate"`
	EntryTest     float64 `json:"entryTest"`
}

type Rating string

const (
	RatingVeryHigh Rating = "Very High"
	RatingHigh     Rating = "High"
	RatingMedium   Rating = "Medium"
	RatingLow      Rating = "Low"
	RatingVeryLow  Rating = "Very Low"
	RatingUnknown  Rating = "Unknown"
)

func (r Rating) Valid() bool {
	switch r {
	case RatingVeryHigh, RatingHigh, RatingMedium, RatingLow, RatingVeryLow, RatingUnknown:
		return true
	}
	return false
}

// AdmissionChanceBand maps the closed interval [Min, Max] to a rating.
type AdmissionChanceBand struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Rating  Rating  `json:"rating"`
	Comment string  `json:"comment"`
}

type Program struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	TestOptions      []string              `json:"testOptions,omitempty"`
	Formula          Formula               `json:"formula"`
	MinimumCriteria  MinimumCriteria       `json:"minimumCriteria"`
	Notes            string                `json:"notes,omitempty"`
	AdmissionChances []AdmissionChanceBand `json:"admissionChances,omitempty"`
}

// MeritHistory is a published merit list for one intake year. Descriptive only.
type MeritHistory struct {
	Year     int `json:"year"`
	Programs []struct {
		Name  string `json:"name"`
		Merit string `json:"merit"`
		Seats int    `json:"seats,omitempty"`
		Shift string `json:"shift,omitempty"`
	} `json:"programs"`
	Source string `json:"source,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// MeritEstimate is a forecast for the next intake. Descriptive only.
type MeritEstimate struct {
	Year     int `json:"year"`
	Programs []struct {
		Name       string `json:"name"`
		Estimate   string `json:"estimate"`
		Confidence string `json:"confidence"`
		Trend      string `json:"trend,omitempty"`
	} `json:"programs"`
	Notes string `json:"notes,omitempty"`
}

type University struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	ShortName           string         `json:"shortName,omitempty"`
	Website             string         `json:"website,omitempty"`
	ApplicationDeadline string         `json:"applicationDeadline,omitempty"`
	ApplicationFee      string         `json:"applicationFee,omitempty"`
	Description         string         `json:"description,omitempty"`
	Programs            []Program      `json:"programs"`
	MeritHistory        []MeritHistory `json:"meritData,omitempty"`
	MeritEstimate       *MeritEstimate `json:"meritEstimate,omitempty"`
}

// Merit is a historical cutoff as published: either a percentage or a
// free-form string such as "80-82", "447/5360" or "#324".
// Exactly one of Number and Text is meaningful.
type Merit struct {
	Number *float64
	Text   string
}

func NumberMerit(v float64) Merit { return Merit{Number: &v} }
func TextMerit(s string) Merit    { return Merit{Text: s} }

func (m Merit) IsNumber() bool { return m.Number != nil }

func (m Merit) String() string {
	if m.Number != nil {
		return strconv.FormatFloat(*m.Number, 'f', -1, 64)
	}
	return m.Text
}

func (m Merit) MarshalJSON() ([]byte, error) {
	if m.Number != nil {
		return json.Marshal(*m.Number)
	}
	return json.Marshal(m.Text)
}

func (m *Merit) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		// left empty so Validate reports the entry
		*m = Merit{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = Merit{Text: s}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("merit must be a number or string: %s", string(b))
	}
	*m = Merit{Number: &v}
	return nil
}

type MeritEntry struct {
	ProgramName string `json:"name"`
	Merit       Merit  `json:"merit"`
	Campus      string `json:"campus,omitempty"`
	Shift       string `json:"shift,omitempty"`
	Category    string `json:"category,omitempty"`
	Seats       int    `json:"seats,omitempty"`
}

type CampusMeritGroup struct {
	Campus   string       `json:"campus"`
	Programs []MeritEntry `json:"programs"`
}

type UniversityMeritTable struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Campuses []CampusMeritGroup `json:"campuses"`
}

type Subject struct {
	Name string `json:"name"`
	MCQs int    `json:"mcqs"`
}

type TestPattern struct {
	TotalMCQs          int       `json:"totalMCQs"`
	Duration           string    `json:"duration"`
	TotalMarks         int       `json:"totalMarks"`
	IsComputerBased    bool      `json:"isComputerBased"`
	HasNegativeMarking bool      `json:"hasNegativeMarking"`
	AllowsCalculator   bool      `json:"allowsCalculator"`
	Subjects           []Subject `json:"subjects"`
	Notes              string    `json:"notes,omitempty"`
}

type UniversityTestPattern struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Pattern TestPattern `json:"pattern"`
}

// Dataset is one version of the reference data file.
type Dataset struct {
	Version      string                  `json:"version"`
	Universities []University            `json:"universities"`
	MeritTables  []UniversityMeritTable  `json:"meritTables"`
	TestPatterns []UniversityTestPattern `json:"testPatterns"`
}
