package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-merit/internal/refdata"
)

type programSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	TestOptions []string `json:"testOptions,omitempty"`
}

type universitySummary struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	ShortName           string           `json:"shortName"`
	Website             string           `json:"website,omitempty"`
	ApplicationDeadline string           `json:"applicationDeadline,omitempty"`
	Programs            []programSummary `json:"programs"`
}

// ListUniversitiesHandler returns every university with its program ids.
func ListUniversitiesHandler(catalog *refdata.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unis := catalog.Universities()
		out := make([]universitySummary, 0, len(unis))
		for _, u := range unis {
			s := universitySummary{
				ID:                  u.ID,
				Name:                u.Name,
				ShortName:           u.ShortName,
				Website:             u.Website,
				ApplicationDeadline: u.ApplicationDeadline,
				Programs:            make([]programSummary, 0, len(u.Programs)),
			}
			for _, p := range u.Programs {
				s.Programs = append(s.Programs, programSummary{ID: p.ID, Name: p.Name, TestOptions: p.TestOptions})
			}
			out = append(out, s)
		}
		respondJSON(w, http.StatusOK, map[string]any{"version": catalog.Version(), "items": out})
	}
}

// GetUniversityHandler returns one university with full program details.
func GetUniversityHandler(catalog *refdata.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := catalog.University(chi.URLParam(r, "universityID"))
		if !ok {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "university not found"})
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

// MeritTablesHandler returns historical merit tables, filtered by ?university_id=.
func MeritTablesHandler(catalog *refdata.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables := catalog.MeritTables(r.URL.Query().Get("university_id"))
		if tables == nil {
			tables = []refdata.UniversityMeritTable{}
		}
		respondJSON(w, http.StatusOK, tables)
	}
}

func TestPatternsHandler(catalog *refdata.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patterns := catalog.TestPatterns()
		if patterns == nil {
			patterns = []refdata.UniversityTestPattern{}
		}
		respondJSON(w, http.StatusOK, patterns)
	}
}
