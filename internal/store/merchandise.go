package store

import (
	"slices"

	"github.com/erazemk/musemate/internal/model"
)

// AddMerchandise assigns a new ID to item and appends it to the event's
// merchandise. A missing status defaults to draft.
func (s *Store) AddMerchandise(eventID string, item model.MerchandiseItem) model.MerchandiseItem {
	item = item.Clone()
	item.ID = s.ids.New()
	if item.Status == "" {
		item.Status = model.MerchStatusDraft
	}
	s.mutateEvent("add_merchandise", eventID, func(e model.Event) model.Event {
		e.Merchandise = append(slices.Clip(e.Merchandise), item)
		return e
	})
	return item
}

// UpdateMerchandise replaces the merchandise item that has item.ID.
func (s *Store) UpdateMerchandise(eventID string, item model.MerchandiseItem) {
	item = item.Clone()
	s.mutateEvent("update_merchandise", eventID, func(e model.Event) model.Event {
		i := slices.IndexFunc(e.Merchandise, func(m model.MerchandiseItem) bool { return m.ID == item.ID })
		if i >= 0 {
			e.Merchandise = replaceAt(e.Merchandise, i, item)
		}
		return e
	})
}

// DeleteMerchandise removes a merchandise item from the event.
func (s *Store) DeleteMerchandise(eventID, merchID string) {
	s.mutateEvent("delete_merchandise", eventID, func(e model.Event) model.Event {
		e.Merchandise, _ = without(e.Merchandise, func(m model.MerchandiseItem) bool { return m.ID == merchID })
		return e
	})
}

// AddRental assigns a new ID to rental and appends it to the event's
// equipment rentals. A missing status defaults to pending.
func (s *Store) AddRental(eventID string, rental model.EquipmentRental) model.EquipmentRental {
	rental.ID = s.ids.New()
	if rental.Status == "" {
		rental.Status = model.RentalStatusPending
	}
	s.mutateEvent("add_rental", eventID, func(e model.Event) model.Event {
		e.Equipment = append(slices.Clip(e.Equipment), rental)
		return e
	})
	return rental
}

// UpdateRental replaces the rental that has rental.ID.
func (s *Store) UpdateRental(eventID string, rental model.EquipmentRental) {
	s.mutateEvent("update_rental", eventID, func(e model.Event) model.Event {
		i := slices.IndexFunc(e.Equipment, func(r model.EquipmentRental) bool { return r.ID == rental.ID })
		if i >= 0 {
			e.Equipment = replaceAt(e.Equipment, i, rental)
		}
		return e
	})
}

// DeleteRental removes a rental from the event.
func (s *Store) DeleteRental(eventID, rentalID string) {
	s.mutateEvent("delete_rental", eventID, func(e model.Event) model.Event {
		e.Equipment, _ = without(e.Equipment, func(r model.EquipmentRental) bool { return r.ID == rentalID })
		return e
	})
}
