package api

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/musemate/internal/imaging"
	"github.com/erazemk/musemate/internal/model"
	"github.com/erazemk/musemate/internal/persist"
	"github.com/erazemk/musemate/internal/store"
)

// MerchandiseHandler handles an event's merchandise and product images.
type MerchandiseHandler struct {
	Store  *store.Store
	Images *persist.Images
}

// Create handles POST /api/events/{id}/merchandise.
func (h *MerchandiseHandler) Create(w http.ResponseWriter, r *http.Request) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return
	}
	var item model.MerchandiseItem
	if !decodeValid(w, r, &item) {
		return
	}
	item = h.Store.AddMerchandise(event.ID, item)
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/events/{id}/merchandise/{merchId}.
func (h *MerchandiseHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, current, ok := h.merch(w, r)
	if !ok {
		return
	}
	var item model.MerchandiseItem
	if !decodeValid(w, r, &item) {
		return
	}
	item.ID = current.ID
	if item.Status == "" {
		item.Status = current.Status
	}
	if item.ImageURL == "" {
		item.ImageURL = current.ImageURL
	}
	h.Store.UpdateMerchandise(event.ID, item)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/events/{id}/merchandise/{merchId}.
func (h *MerchandiseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, item, ok := h.merch(w, r)
	if !ok {
		return
	}
	h.Store.DeleteMerchandise(event.ID, item.ID)
	if err := h.Images.Delete(r.Context(), item.ID); err != nil {
		slog.Error("failed to delete merch image", "merch", item.ID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles PUT /api/events/{id}/merchandise/{merchId}/image.
// The body is the raw JPEG or PNG.
func (h *MerchandiseHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	event, item, ok := h.merch(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	result, err := imaging.Process(r.Body)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrTooLarge):
			jsonError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			jsonError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	img := persist.Image{Data: result.Data, MIME: result.MIME, ETag: result.ETag}
	if err := h.Images.Put(r.Context(), event.ID, item.ID, img); err != nil {
		slog.Error("failed to store merch image", "merch", item.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	item.ImageURL = r.URL.Path
	h.Store.UpdateMerchandise(event.ID, item)

	slog.Info("merch image uploaded", "merch", item.Name, "bytes", len(result.Data),
		"width", result.Width, "height", result.Height)
	w.Header().Set("ETag", result.ETag)
	jsonResponse(w, http.StatusOK, item)
}

// GetImage handles GET /api/events/{id}/merchandise/{merchId}/image.
func (h *MerchandiseHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	_, item, ok := h.merch(w, r)
	if !ok {
		return
	}

	img, err := h.Images.Get(r.Context(), item.ID)
	if errors.Is(err, persist.ErrNoImage) {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}
	if err != nil {
		slog.Error("failed to load merch image", "merch", item.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load image")
		return
	}

	w.Header().Set("ETag", img.ETag)
	w.Header().Set("Cache-Control", "private, no-cache")
	if r.Header.Get("If-None-Match") == img.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", img.MIME)
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}

func (h *MerchandiseHandler) merch(w http.ResponseWriter, r *http.Request) (model.Event, model.MerchandiseItem, bool) {
	event, ok := eventFromPath(w, r, h.Store)
	if !ok {
		return model.Event{}, model.MerchandiseItem{}, false
	}
	id := chi.URLParam(r, "merchId")
	i := slices.IndexFunc(event.Merchandise, func(m model.MerchandiseItem) bool { return m.ID == id })
	if i < 0 {
		jsonError(w, http.StatusNotFound, "merchandise not found")
		return model.Event{}, model.MerchandiseItem{}, false
	}
	return event, event.Merchandise[i], true
}
