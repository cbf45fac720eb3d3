// File: internal/handlers/prefs_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services/prefs"
)

type PrefsHandler struct {
	Prefs *prefs.Service
}

func NewPrefsHandler(ps *prefs.Service) *PrefsHandler {
	return &PrefsHandler{Prefs: ps}
}

func (h *PrefsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Prefs.Get())
}

func (h *PrefsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DarkMode bool `json:"darkMode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.Prefs.SetDarkMode(r.Context(), req.DarkMode); err != nil {
		writeError(w, "Could not save preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.Prefs.Get())
}
