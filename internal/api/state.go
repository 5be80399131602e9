package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/musemate/internal/model"
	"github.com/erazemk/musemate/internal/store"
)

// StateHandler serves the whole state and the signed-in profile.
type StateHandler struct {
	Store   *store.Store
	Flusher Flusher
}

type profileResponse struct {
	model.Profile
	DisplayName string `json:"displayName"`
}

// Me handles GET /api/me.
func (h *StateHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	p := model.Profile{UserID: claims.UserID(), FullName: claims.Name, Email: claims.Email}
	jsonResponse(w, http.StatusOK, profileResponse{Profile: p, DisplayName: p.DisplayName()})
}

// Get handles GET /api/state.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Store.Snapshot())
}

// Flush handles POST /api/flush.
func (h *StateHandler) Flush(w http.ResponseWriter, r *http.Request) {
	if h.Flusher == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.Flusher.Flush(r.Context()); err != nil {
		slog.Error("flush failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save state")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
