package aggregate

import "strings"

// Policy describes how a university treats A-Level candidates.
//
// When ReplaceMatric is set, ALevelMatricWeight (zero included) replaces the
// program's matriculation weight (O-Level equivalence) and no bonus is
// applied. Otherwise the weighted sum is multiplied by ALevelBonus.
type Policy struct {
	ReplaceMatric      bool    `json:"replaceMatric,omitempty"`
	ALevelMatricWeight float64 `json:"aLevelMatricWeight,omitempty"`
	ALevelBonus        float64 `json:"aLevelBonus,omitempty"`
}

// DefaultPolicy applies to every university without an entry in the table.
var DefaultPolicy = Policy{ALevelBonus: 1.10}

// DefaultPolicies returns the built-in override table.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		"nust": {ReplaceMatric: true, ALevelMatricWeight: 0.25, ALevelBonus: 1},
	}
}

func (p Policy) replacesMatric() bool { return p.ReplaceMatric }

func (p Policy) bonus() float64 {
	if p.replacesMatric() || p.ALevelBonus <= 0 {
		return 1
	}
	return p.ALevelBonus
}

func policyKey(universityID string) string {
	return strings.ToLower(strings.TrimSpace(universityID))
}
