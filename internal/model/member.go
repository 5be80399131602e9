package model

import (
	"fmt"
	"slices"
	"strings"
)

// BandMember is a performer or crew member attached to one event.
type BandMember struct {
	ID           string        `json:"id"`
	Name         string        `json:"name" validate:"required,max=200"`
	Role         string        `json:"role" validate:"required,max=100"`
	Email        string        `json:"email" validate:"required,email"`
	Phone        string        `json:"phone,omitempty"`
	Equipment    []string      `json:"equipment,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

// Availability lists weekly time slots as "Day-HH:00" keys, e.g. "Mon-18:00".
type Availability struct {
	Preferred   []string `json:"preferred" validate:"dive,slot"`
	Unavailable []string `json:"unavailable" validate:"dive,slot"`
}

// SuggestedRoles are the roles offered when adding a member. Role itself is
// free-form.
var SuggestedRoles = []string{
	"Vocalist",
	"Guitarist",
	"Bassist",
	"Drummer",
	"Keyboardist",
	"DJ",
	"Other",
}

// Weekdays are the day prefixes used in availability slot keys.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// SlotKey builds the availability key for a weekday and hour.
func SlotKey(day string, hour int) string {
	return fmt.Sprintf("%s-%02d:00", day, hour)
}

// ValidSlot reports whether key is a well-formed availability slot key.
func ValidSlot(key string) bool {
	day, hour, ok := strings.Cut(key, "-")
	if !ok || !slices.Contains(Weekdays, day) {
		return false
	}
	for h := 0; h < 24; h++ {
		if hour == fmt.Sprintf("%02d:00", h) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of m.
func (m BandMember) Clone() BandMember {
	m.Equipment = slices.Clone(m.Equipment)
	if m.Availability != nil {
		a := m.Availability.Clone()
		m.Availability = &a
	}
	return m
}

// Clone returns a deep copy of a.
func (a Availability) Clone() Availability {
	return Availability{
		Preferred:   slices.Clone(a.Preferred),
		Unavailable: slices.Clone(a.Unavailable),
	}
}
