package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/musemate/internal/model"
	"github.com/erazemk/musemate/internal/store"
	"github.com/erazemk/musemate/internal/views"
)

// ItemsHandler handles gear inventory endpoints.
type ItemsHandler struct {
	Store *store.Store
}

type itemResponse struct {
	model.Item
	LowStock bool `json:"lowStock"`
}

func newItemResponse(item model.Item) itemResponse {
	return itemResponse{Item: item, LowStock: views.IsLowStock(item)}
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := views.ItemFilter{
		Query:        q.Get("q"),
		Category:     q.Get("category"),
		Availability: views.Availability(q.Get("availability")),
	}
	if !filter.Availability.Valid() {
		jsonError(w, http.StatusBadRequest, "availability must be all, available or low")
		return
	}

	items := views.FilterItems(h.Store.Snapshot().Items, filter)
	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = newItemResponse(item)
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Categories handles GET /api/items/categories.
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	inUse := views.ItemCategories(h.Store.Snapshot().Items)
	if inUse == nil {
		inUse = []string{}
	}
	jsonResponse(w, http.StatusOK, map[string][]string{
		"inUse":     inUse,
		"suggested": model.SuggestedCategories,
	})
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item model.Item
	if !decodeValid(w, r, &item) {
		return
	}
	item = h.Store.AddItem(item)
	jsonResponse(w, http.StatusCreated, newItemResponse(item))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.Store.Item(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, newItemResponse(item))
}

// Update handles PATCH /api/items/{id}. Only the fields present in the body
// change.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.Store.Item(id); !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	var patch model.ItemPatch
	if !decodeValid(w, r, &patch) {
		return
	}
	h.Store.UpdateItem(id, patch)

	item, ok := h.Store.Item(id)
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, newItemResponse(item))
}

// Delete handles DELETE /api/items/{id}. Checklist entries referencing the
// item are kept.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.Store.Item(id); !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	h.Store.DeleteItem(id)
	w.WriteHeader(http.StatusNoContent)
}
