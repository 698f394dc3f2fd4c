package formats

// Scorer turns section-wise MCQ attempts into a raw test score for one test profile.
type Scorer interface {
	// Policy describes the sections and marking scheme the scorer applies.
	Policy() Policy
	// Score validates attempts and returns the raw score. Validation problems
	// are reported together as ValidationErrors.
	Score(attempts map[string]Attempt) (float64, error)
}

// Registry of scorers by profile key (e.g., "nu.v1")
var registry = map[string]Scorer{}

// Register a profile scorer. Call from init() in subpackages.
func Register(profile string, s Scorer) { registry[profile] = s }

// Lookup returns a registered scorer for a profile.
func Lookup(profile string) (Scorer, bool) { s, ok := registry[profile]; return s, ok }

// Profiles lists registered profile keys.
func Profiles() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}
