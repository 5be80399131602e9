package store

import (
	"slices"

	"github.com/erazemk/musemate/internal/model"
)

// AddMember assigns a new ID to member and appends it to the event's roster.
// The returned member carries the new ID even when the event does not exist.
func (s *Store) AddMember(eventID string, member model.BandMember) model.BandMember {
	member = member.Clone()
	member.ID = s.ids.New()
	s.mutateEvent("add_member", eventID, func(e model.Event) model.Event {
		e.Members = append(slices.Clip(e.Members), member)
		return e
	})
	return member
}

// UpdateMember replaces the member that has member.ID within the event.
func (s *Store) UpdateMember(eventID string, member model.BandMember) {
	member = member.Clone()
	s.mutateEvent("update_member", eventID, func(e model.Event) model.Event {
		if i := indexOfMember(e.Members, member.ID); i >= 0 {
			e.Members = replaceAt(e.Members, i, member)
		}
		return e
	})
}

// DeleteMember removes a member from the event's roster.
func (s *Store) DeleteMember(eventID, memberID string) {
	s.mutateEvent("delete_member", eventID, func(e model.Event) model.Event {
		e.Members, _ = without(e.Members, func(m model.BandMember) bool { return m.ID == memberID })
		return e
	})
}

// SetMemberAvailability replaces one member's weekly availability.
func (s *Store) SetMemberAvailability(eventID, memberID string, availability model.Availability) {
	availability = availability.Clone()
	s.mutateEvent("set_member_availability", eventID, func(e model.Event) model.Event {
		i := indexOfMember(e.Members, memberID)
		if i < 0 {
			return e
		}
		m := e.Members[i]
		m.Availability = &availability
		e.Members = replaceAt(e.Members, i, m)
		return e
	})
}

func indexOfMember(members []model.BandMember, id string) int {
	return slices.IndexFunc(members, func(m model.BandMember) bool { return m.ID == id })
}
