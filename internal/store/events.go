package store

import (
	"slices"

	"github.com/erazemk/musemate/internal/model"
)

// AddEvent assigns a new ID to event, defaults its nested collections to
// empty and appends it.
func (s *Store) AddEvent(event model.Event) model.Event {
	event = event.Clone()
	event.ID = s.ids.New()
	if event.Checklist == nil {
		event.Checklist = []model.ChecklistEntry{}
	}
	if event.Members == nil {
		event.Members = []model.BandMember{}
	}
	if event.Merchandise == nil {
		event.Merchandise = []model.MerchandiseItem{}
	}
	if event.Equipment == nil {
		event.Equipment = []model.EquipmentRental{}
	}

	s.update("add_event", func(st *State) bool {
		st.Events = append(slices.Clip(st.Events), event)
		return true
	})
	return event
}

// Event returns the event with the given ID.
func (s *Store) Event(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfEvent(s.state.Events, id)
	if i < 0 {
		return model.Event{}, false
	}
	return s.state.Events[i], true
}

// UpdateEvent replaces the event that has event.ID.
func (s *Store) UpdateEvent(event model.Event) {
	event = event.Clone()
	s.mutateEvent("update_event", event.ID, func(model.Event) model.Event {
		return event
	})
}

// DeleteEvent removes the event with the given ID.
func (s *Store) DeleteEvent(id string) {
	s.update("delete_event", func(st *State) bool {
		events, changed := without(st.Events, func(e model.Event) bool { return e.ID == id })
		if changed {
			st.Events = events
		}
		return changed
	})
}

// SetEventNotes replaces an event's notes.
func (s *Store) SetEventNotes(eventID, notes string) {
	s.mutateEvent("set_event_notes", eventID, func(e model.Event) model.Event {
		e.Notes = notes
		return e
	})
}

// SetEventDetails replaces an event's details. Nil clears them.
func (s *Store) SetEventDetails(eventID string, details *model.EventDetails) {
	if details != nil {
		d := details.Clone()
		details = &d
	}
	s.mutateEvent("set_event_details", eventID, func(e model.Event) model.Event {
		e.Details = details
		return e
	})
}

// mutateEvent replaces the event with the given ID by fn's result. fn gets
// the current event by value and must build new slices rather than write
// into the ones it was given.
func (s *Store) mutateEvent(op, eventID string, fn func(model.Event) model.Event) {
	s.update(op, func(st *State) bool {
		i := indexOfEvent(st.Events, eventID)
		if i < 0 {
			return false
		}
		st.Events = replaceAt(st.Events, i, fn(st.Events[i]))
		return true
	})
}

func indexOfEvent(events []model.Event, id string) int {
	return slices.IndexFunc(events, func(e model.Event) bool { return e.ID == id })
}
