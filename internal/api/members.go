package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/musemate/internal/model"
	"github.com/erazemk/musemate/internal/store"
	"github.com/erazemk/musemate/internal/views"
)

// MembersHandler handles an event's band member roster.
type MembersHandler struct {
	Store *store.Store
}

// Create handles POST /api/events/{id}/members.
func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	var member model.BandMember
	if !decodeValid(w, r, &member) {
		return
	}
	member = h.Store.AddMember(event.ID, member)
	jsonResponse(w, http.StatusCreated, member)
}

// Update handles PUT /api/events/{id}/members/{memberId}.
func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, _, ok := memberFromPath(w, r, h.Store)
	if !ok {
		return
	}
	var member model.BandMember
	if !decodeValid(w, r, &member) {
		return
	}
	member.ID = chi.URLParam(r, "memberId")
	h.Store.UpdateMember(event.ID, member)
	jsonResponse(w, http.StatusOK, member)
}

// Delete handles DELETE /api/events/{id}/members/{memberId}.
func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, member, ok := memberFromPath(w, r, h.Store)
	if !ok {
		return
	}
	h.Store.DeleteMember(event.ID, member.ID)
	w.WriteHeader(http.StatusNoContent)
}

type slotRequest struct {
	Day  string `json:"day" validate:"required,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	Hour *int   `json:"hour" validate:"required,gte=0,lte=23"`
}

// ToggleAvailability handles POST
// /api/events/{id}/members/{memberId}/availability/toggle. The slot moves
// from unset to preferred to unavailable and back to unset.
func (h *MembersHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	event, member, ok := memberFromPath(w, r, h.Store)
	if !ok {
		return
	}
	var req slotRequest
	if !decodeValid(w, r, &req) {
		return
	}

	availability := views.CycleSlot(member.Availability, model.SlotKey(req.Day, *req.Hour))
	h.Store.SetMemberAvailability(event.ID, member.ID, availability)
	jsonResponse(w, http.StatusOK, availability)
}

// memberFromPath looks up the {id} event and its {memberId} member, writing
// a 404 if either is missing.
func memberFromPath(w http.ResponseWriter, r *http.Request, st *store.Store) (model.Event, model.BandMember, bool) {
	event, ok := eventFromPath(w, r, st)
	if !ok {
		return model.Event{}, model.BandMember{}, false
	}
	id := chi.URLParam(r, "memberId")
	i := slices.IndexFunc(event.Members, func(m model.BandMember) bool { return m.ID == id })
	if i < 0 {
		jsonError(w, http.StatusNotFound, "member not found")
		return model.Event{}, model.BandMember{}, false
	}
	return event, event.Members[i], true
}
