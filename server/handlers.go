package server

import (
	"encoding/json"
	"net/http"

	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.app.Status(r.Context()))
	}
}

func (s *Server) ToastsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.app.Toasts.Active())
	}
}

func (s *Server) DismissToastHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.app.Toasts.Dismiss(r.PathValue("id")) {
			writeJSONError(w, "not_found", "no such toast", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// NavigateHandler runs a guarded navigation to the "to" query parameter and
// reports where the app ended up.
func (s *Server) NavigateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		to := r.URL.Query().Get(QueryNavigateTo)
		if to == "" {
			writeJSONError(w, "invalid_request", "to parameter is required", http.StatusBadRequest)
			return
		}
		location, err := s.app.Open(r.Context(), to)
		switch {
		case perrors.Is(err, perrors.ErrRouteNotFound):
			writeJSONError(w, "not_found", err.Error(), http.StatusNotFound)
			return
		case perrors.Is(err, perrors.ErrRedirectLoop):
			writeJSONError(w, "redirect_loop", err.Error(), http.StatusLoopDetected)
			return
		case err != nil:
			writeJSONError(w, "server_error", err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"requested":  to,
			"location":   location,
			"redirected": location != to,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
