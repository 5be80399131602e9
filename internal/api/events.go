package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/musemate/internal/model"
	"github.com/erazemk/musemate/internal/persist"
	"github.com/erazemk/musemate/internal/store"
	"github.com/erazemk/musemate/internal/views"
)

// EventsHandler handles event endpoints, including the checklist.
type EventsHandler struct {
	Store  *store.Store
	Images *persist.Images
}

type eventSummary struct {
	model.Event
	Completion float64     `json:"completion"`
	Level      views.Level `json:"level"`
}

type eventResponse struct {
	eventSummary
	Groups           []views.CategoryGroup `json:"groups"`
	RentalCost       float64               `json:"rentalCost"`
	TicketsRemaining *int                  `json:"ticketsRemaining,omitempty"`
}

func summarize(e model.Event) eventSummary {
	ratio := views.CompletionRatio(e.Checklist)
	return eventSummary{Event: e, Completion: ratio, Level: views.Progress(ratio)}
}

// List handles GET /api/events. Most recent first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events := views.SortEventsByDate(h.Store.Snapshot().Events)
	resp := make([]eventSummary, len(events))
	for i, e := range events {
		resp[i] = summarize(e)
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Create handles POST /api/events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event model.Event
	if !decodeValid(w, r, &event) {
		return
	}
	event = h.Store.AddEvent(event)
	slog.Info("event created", "event", event.Name, "type", event.Type)
	jsonResponse(w, http.StatusCreated, summarize(event))
}

// Get handles GET /api/events/{id}.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	items := h.Store.Snapshot().Items

	resp := eventResponse{
		eventSummary: summarize(event),
		Groups:       views.GroupChecklist(items, event.Checklist),
		RentalCost:   views.RentalCost(event),
	}
	if remaining, ok := views.TicketsRemaining(event); ok {
		resp.TicketsRemaining = &remaining
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Update handles PUT /api/events/{id}. The body replaces the whole event.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := eventFromPath(w, r, h.Store); !ok {
		return
	}

	var event model.Event
	if !decodeValid(w, r, &event) {
		return
	}
	event.ID = chi.URLParam(r, "id")
	h.Store.UpdateEvent(event)
	h.respondEvent(w, r)
}

// Delete handles DELETE /api/events/{id}.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	h.Store.DeleteEvent(event.ID)
	if h.Images != nil {
		if err := h.Images.DeleteEvent(r.Context(), event.ID); err != nil {
			slog.Error("failed to delete event images", "event", event.ID, "error", err)
		}
	}
	slog.Info("event deleted", "event", event.Name)
	w.WriteHeader(http.StatusNoContent)
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=10000"`
}

// SetNotes handles PUT /api/events/{id}/notes.
func (h *EventsHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	var req notesRequest
	if !decodeValid(w, r, &req) {
		return
	}
	h.Store.SetEventNotes(event.ID, req.Notes)
	h.respondEvent(w, r)
}

// SetDetails handles PUT /api/events/{id}/details. A null body clears them.
func (h *EventsHandler) SetDetails(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	var details *model.EventDetails
	if err := decodeJSON(w, r, &details); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if details != nil {
		if err := validate.Struct(details); err != nil {
			jsonError(w, http.StatusBadRequest, validationMessage(err))
			return
		}
	}
	h.Store.SetEventDetails(event.ID, details)
	h.respondEvent(w, r)
}

type checklistRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,min=1,dive,required"`
}

// AddChecklistItems handles POST /api/events/{id}/checklist. Items already on
// the checklist are skipped.
func (h *EventsHandler) AddChecklistItems(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	var req checklistRequest
	if !decodeValid(w, r, &req) {
		return
	}
	h.Store.AddChecklistItems(event.ID, req.ItemIDs)
	h.respondEvent(w, r)
}

// ToggleChecklistItem handles POST /api/events/{id}/checklist/{itemId}/toggle.
func (h *EventsHandler) ToggleChecklistItem(w http.ResponseWriter, r *http.Request) {
	event, ok := h.checklistEntry(w, r)
	if !ok {
		return
	}
	h.Store.ToggleChecklistItem(event.ID, chi.URLParam(r, "itemId"))
	h.respondEvent(w, r)
}

// RemoveChecklistItem handles DELETE /api/events/{id}/checklist/{itemId}.
func (h *EventsHandler) RemoveChecklistItem(w http.ResponseWriter, r *http.Request) {
	event, ok := h.checklistEntry(w, r)
	if !ok {
		return
	}
	h.Store.RemoveChecklistItem(event.ID, chi.URLParam(r, "itemId"))
	h.respondEvent(w, r)
}

func (h *EventsHandler) checklistEntry(w http.ResponseWriter, r *http.Request) (model.Event, bool) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return model.Event{}, false
	}
	itemID := chi.URLParam(r, "itemId")
	for _, entry := range event.Checklist {
		if entry.ItemID == itemID {
			return event, true
		}
	}
	jsonError(w, http.StatusNotFound, "item not on checklist")
	return model.Event{}, false
}

// respondEvent writes the current state of the event named in the path.
func (h *EventsHandler) respondEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, summarize(event))
}

// eventFromPath looks up the {id} event, writing a 404 if it is missing.
func eventFromPath(w http.ResponseWriter, r *http.Request, st *store.Store) (model.Event, bool) {
	event, ok := st.Event(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "event not found")
		return model.Event{}, false
	}
	return event, true
}
