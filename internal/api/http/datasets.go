package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/mind-engage/mindengage-merit/internal/refdata"
	"github.com/mind-engage/mindengage-merit/internal/storage"
)

const maxDatasetBytes = 8 << 20

// MountDatasets serves dataset files from bs and accepts new ones for the
// next restart. The running catalog is never replaced.
func MountDatasets(r chi.Router, bs storage.BlobStore) {
	// POST /datasets/{name}
	r.Post("/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(chi.URLParam(r, "name"), ".json")
		r.Body = http.MaxBytesReader(w, r.Body, maxDatasetBytes)
		f, _, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "dataset too large"})
				return
			}
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
			return
		}
		defer f.Close()

		raw, err := io.ReadAll(f)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "read error"})
			return
		}
		ds, err := refdata.Decode(bytes.NewReader(raw))
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		warnings, err := refdata.Validate(ds)
		if err != nil {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}

		key, err := bs.Put("datasets/"+name+".json", bytes.NewReader(raw))
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("dataset", name).Msg("store dataset")
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
			return
		}
		hlog.FromRequest(r).Info().Str("key", key).Str("version", ds.Version).Int("warnings", len(warnings)).Msg("dataset staged")
		respondJSON(w, http.StatusCreated, map[string]any{"key": key, "version": ds.Version, "warnings": warnings})
	})

	// GET /datasets/ -> staged dataset keys
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		keys, err := bs.List("datasets")
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("list datasets")
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
			return
		}
		respondJSON(w, http.StatusOK, keys)
	})

	// GET /datasets/*   -> returns the blob at whatever follows /datasets/
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get("datasets/" + key)
		if err != nil {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, rc)
	})
}
