package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/musemate/internal/model"
	"github.com/erazemk/musemate/internal/store"
)

// RentalsHandler handles an event's equipment rentals.
type RentalsHandler struct {
	Store *store.Store
}

// Create handles POST /api/events/{id}/equipment.
func (h *RentalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	var rental model.EquipmentRental
	if !decodeValid(w, r, &rental) {
		return
	}
	rental = h.Store.AddRental(event.ID, rental)
	jsonResponse(w, http.StatusCreated, rental)
}

// Update handles PUT /api/events/{id}/equipment/{rentalId}.
func (h *RentalsHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, current, ok := h.rental(w, r)
	if !ok {
		return
	}
	var rental model.EquipmentRental
	if !decodeValid(w, r, &rental) {
		return
	}
	rental.ID = current.ID
	if rental.Status == "" {
		rental.Status = current.Status
	}
	h.Store.UpdateRental(event.ID, rental)
	jsonResponse(w, http.StatusOK, rental)
}

// Delete handles DELETE /api/events/{id}/equipment/{rentalId}.
func (h *RentalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, rental, ok := h.rental(w, r)
	if !ok {
		return
	}
	h.Store.DeleteRental(event.ID, rental.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RentalsHandler) rental(w http.ResponseWriter, r *http.Request) (model.Event, model.EquipmentRental, bool) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return model.Event{}, model.EquipmentRental{}, false
	}
	id := chi.URLParam(r, "rentalId")
	i := slices.IndexFunc(event.Equipment, func(e model.EquipmentRental) bool { return e.ID == id })
	if i < 0 {
		jsonError(w, http.StatusNotFound, "rental not found")
		return model.Event{}, model.EquipmentRental{}, false
	}
	return event, event.Equipment[i], true
}
