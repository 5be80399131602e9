package model

import "testing"

func TestProfileDisplayName(t *testing.T) {
	tests := []struct {
		profile  Profile
		expected string
	}{
		{Profile{UserID: "u1", FullName: "Ada Lovelace", Email: "ada@example.com"}, "Ada Lovelace"},
		{Profile{UserID: "u1", FullName: "  ", Email: "ada@example.com"}, "ada"},
		{Profile{UserID: "u1", Email: "not-an-email"}, "u1"},
		{Profile{UserID: "u1", Email: "@example.com"}, "u1"},
		{Profile{UserID: "u1"}, "u1"},
		{Profile{}, ""},
	}

	for _, tt := range tests {
		got := tt.profile.DisplayName()
		if got != tt.expected {
			t.Errorf("DisplayName(%+v) = %q, want %q", tt.profile, got, tt.expected)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	if !EventTypeConcert.Valid() || EventType("rave").Valid() || EventType("").Valid() {
		t.Error("unexpected EventType validity")
	}
	if !MaintenanceStatus("").Valid() || !MaintenanceDamaged.Valid() || MaintenanceStatus("broken").Valid() {
		t.Error("unexpected MaintenanceStatus validity")
	}
	if !MerchStatusOrdered.Valid() || MerchStatus("").Valid() {
		t.Error("unexpected MerchStatus validity")
	}
	if !RentalStatusPickedUp.Valid() || RentalStatus("picked_up").Valid() {
		t.Error("unexpected RentalStatus validity")
	}
}

func TestItemPatchApply(t *testing.T) {
	item := Item{ID: "1", Name: "Mixer", Category: "Audio", Quantity: 4, Available: 4, Location: "Van"}
	available := 3
	status := MaintenanceNeedsMaintenance

	got := ItemPatch{Available: &available, MaintenanceStatus: &status}.Apply(item)

	want := item
	want.Available = 3
	want.MaintenanceStatus = MaintenanceNeedsMaintenance
	if got != want {
		t.Errorf("Apply = %+v, want %+v", got, want)
	}
	if item.Available != 4 {
		t.Error("Apply must not modify its argument")
	}
}

func TestEventCloneIsDeep(t *testing.T) {
	price := 12.5
	event := Event{
		ID:        "e1",
		Checklist: []ChecklistEntry{{ItemID: "i1"}},
		Details: &EventDetails{
			Timeline:  map[string]string{"doors": "19:00"},
			Ticketing: &Ticketing{Price: &price},
		},
		Members: []BandMember{{ID: "m1", Availability: &Availability{Preferred: []string{"Mon-18:00"}}}},
	}

	clone := event.Clone()
	clone.Checklist[0].Completed = true
	clone.Details.Timeline["doors"] = "20:00"
	*clone.Details.Ticketing.Price = 20
	clone.Members[0].Availability.Preferred[0] = "Tue-18:00"

	if event.Checklist[0].Completed {
		t.Error("checklist shared with clone")
	}
	if event.Details.Timeline["doors"] != "19:00" {
		t.Error("timeline shared with clone")
	}
	if *event.Details.Ticketing.Price != 12.5 {
		t.Error("ticket price shared with clone")
	}
	if event.Members[0].Availability.Preferred[0] != "Mon-18:00" {
		t.Error("availability shared with clone")
	}
}

func TestSlotKey(t *testing.T) {
	if got := SlotKey("Mon", 7); got != "Mon-07:00" {
		t.Errorf("SlotKey = %q, want %q", got, "Mon-07:00")
	}
	if got := SlotKey("Sun", 23); got != "Sun-23:00" {
		t.Errorf("SlotKey = %q, want %q", got, "Sun-23:00")
	}
}

func TestValidSlot(t *testing.T) {
	tests := map[string]bool{
		"Mon-00:00": true,
		"Fri-20:00": true,
		"Sun-23:00": true,
		"Sun-24:00": false,
		"Fri-20:30": false,
		"Fri-8:00":  false,
		"Funday-10": false,
		"":          false,
	}
	for key, want := range tests {
		if got := ValidSlot(key); got != want {
			t.Errorf("ValidSlot(%q) = %v, want %v", key, got, want)
		}
	}
}
