package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// handlerFunc is an http handler that may fail.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// wrap converts a handlerFunc to an http.HandlerFunc by handling errors.
func wrap(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
