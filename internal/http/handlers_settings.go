package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pairbudget/internal/core"
	"pairbudget/internal/log"
	"pairbudget/internal/storage"
)

// handleSettings serves the singleton settings row. Mounted on both
// /api/settings and /api/preferences.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetSettings(w, r)
	case http.MethodPost:
		s.handleSaveSettings(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if settings, found := s.settingsCache.Get(settingsCacheKey); found {
		writeJSON(w, http.StatusOK, settings)
		return
	}

	settings, err := s.journal.GetSettings(r.Context())
	if errors.Is(err, storage.ErrNoSettings) {
		writeMessage(w, http.StatusNotFound, "No settings found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get settings failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.settingsCache.Set(settingsCacheKey, settings)
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings core.BudgetSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.journal.SaveSettings(r.Context(), settings); err != nil {
		slog.ErrorContext(r.Context(), "Save settings failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.settingsCache.Delete(settingsCacheKey)
	writeMessage(w, http.StatusOK, "Settings saved")
}
