package model

import (
	"slices"
	"time"
)

// EventType is the kind of event being planned.
type EventType string

// Event types.
const (
	EventTypeConcert  EventType = "concert"
	EventTypeFestival EventType = "festival"
	EventTypeWorkshop EventType = "workshop"
	EventTypeParty    EventType = "party"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeConcert, EventTypeFestival, EventTypeWorkshop, EventTypeParty:
		return true
	}
	return false
}

// ChecklistEntry references an item by ID. The reference is weak: the item
// may have been deleted since the entry was added.
type ChecklistEntry struct {
	ItemID    string `json:"itemId" validate:"required"`
	Completed bool   `json:"completed"`
}

// Event is a planned concert, festival, workshop or party. Members,
// merchandise and equipment rentals are owned by the event.
type Event struct {
	ID                string            `json:"id"`
	Name              string            `json:"name" validate:"required,max=200"`
	Date              time.Time         `json:"date" validate:"required"`
	Type              EventType         `json:"type" validate:"eventtype"`
	Venue             string            `json:"venue,omitempty"`
	ExpectedAttendees *int              `json:"expectedAttendees,omitempty" validate:"omitnil,gte=0"`
	Checklist         []ChecklistEntry  `json:"checklist" validate:"dive"`
	Notes             string            `json:"notes,omitempty"`
	Details           *EventDetails     `json:"details,omitempty"`
	Members           []BandMember      `json:"members" validate:"dive"`
	Merchandise       []MerchandiseItem `json:"merchandise" validate:"dive"`
	Equipment         []EquipmentRental `json:"equipment" validate:"dive"`
}

// EventDetails holds logistics for an event. Timeline is an open map of
// label to time so callers can add their own milestones.
type EventDetails struct {
	VenueContact string            `json:"venueContact,omitempty"`
	ContactPhone string            `json:"contactPhone,omitempty"`
	LoadInTime   string            `json:"loadInTime,omitempty"`
	SoundCheck   string            `json:"soundCheck,omitempty"`
	ShowStart    string            `json:"showStart,omitempty"`
	Timeline     map[string]string `json:"timeline,omitempty"`
	Ticketing    *Ticketing        `json:"ticketing,omitempty"`
}

// Ticketing describes how tickets for an event are sold.
type Ticketing struct {
	Provider  string   `json:"provider,omitempty"`
	URL       string   `json:"url,omitempty" validate:"omitempty,url"`
	Price     *float64 `json:"price,omitempty" validate:"omitnil,gte=0"`
	Capacity  *int     `json:"capacity,omitempty" validate:"omitnil,gte=0"`
	SoldCount *int     `json:"soldCount,omitempty" validate:"omitnil,gte=0"`
}

// Clone returns a deep copy of e.
func (e Event) Clone() Event {
	e.ExpectedAttendees = clonePtr(e.ExpectedAttendees)
	e.Checklist = slices.Clone(e.Checklist)
	if e.Details != nil {
		d := e.Details.Clone()
		e.Details = &d
	}
	if e.Members != nil {
		members := make([]BandMember, len(e.Members))
		for i, m := range e.Members {
			members[i] = m.Clone()
		}
		e.Members = members
	}
	if e.Merchandise != nil {
		merch := make([]MerchandiseItem, len(e.Merchandise))
		for i, m := range e.Merchandise {
			merch[i] = m.Clone()
		}
		e.Merchandise = merch
	}
	e.Equipment = slices.Clone(e.Equipment)
	return e
}

// Clone returns a deep copy of d.
func (d EventDetails) Clone() EventDetails {
	if d.Timeline != nil {
		timeline := make(map[string]string, len(d.Timeline))
		for k, v := range d.Timeline {
			timeline[k] = v
		}
		d.Timeline = timeline
	}
	if d.Ticketing != nil {
		t := *d.Ticketing
		t.Price = clonePtr(t.Price)
		t.Capacity = clonePtr(t.Capacity)
		t.SoldCount = clonePtr(t.SoldCount)
		d.Ticketing = &t
	}
	return d
}

// ChecklistTemplate is a reusable checklist for a type of event.
type ChecklistTemplate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       EventType `json:"type"`
	Categories []string  `json:"categories"`
	Items      []string  `json:"items"`
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
