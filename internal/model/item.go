package model

// Item represents a piece of gear (quantity-based, not individual tracking).
// Quantity counts every unit owned, Available the units not allocated.
// Available <= Quantity is expected but not enforced.
type Item struct {
	ID                string            `json:"id"`
	Name              string            `json:"name" validate:"required,max=200"`
	Category          string            `json:"category" validate:"required,max=100"`
	Description       string            `json:"description,omitempty"`
	Quantity          int               `json:"quantity" validate:"gte=0"`
	Available         int               `json:"available" validate:"gte=0"`
	Notes             string            `json:"notes,omitempty"`
	LastUsed          string            `json:"lastUsed,omitempty"`
	Location          string            `json:"location,omitempty"`
	MaintenanceStatus MaintenanceStatus `json:"maintenanceStatus,omitempty" validate:"maintenance"`
	SerialNumber      string            `json:"serialNumber,omitempty"`
	PurchaseDate      string            `json:"purchaseDate,omitempty"`
	PurchasePrice     string            `json:"purchasePrice,omitempty"`
}

// MaintenanceStatus describes the condition of an item.
type MaintenanceStatus string

// Maintenance statuses.
const (
	MaintenanceGood             MaintenanceStatus = "good"
	MaintenanceNeedsMaintenance MaintenanceStatus = "needs-maintenance"
	MaintenanceUnderRepair      MaintenanceStatus = "under-repair"
	MaintenanceDamaged          MaintenanceStatus = "damaged"
)

// Valid reports whether s is empty (unset) or one of the known statuses.
func (s MaintenanceStatus) Valid() bool {
	switch s {
	case "", MaintenanceGood, MaintenanceNeedsMaintenance, MaintenanceUnderRepair, MaintenanceDamaged:
		return true
	}
	return false
}

// ItemPatch is a partial item update. Nil fields are left untouched.
type ItemPatch struct {
	Name              *string            `json:"name,omitempty" validate:"omitnil,min=1,max=200"`
	Category          *string            `json:"category,omitempty" validate:"omitnil,min=1,max=100"`
	Description       *string            `json:"description,omitempty"`
	Quantity          *int               `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Available         *int               `json:"available,omitempty" validate:"omitempty,gte=0"`
	Notes             *string            `json:"notes,omitempty"`
	LastUsed          *string            `json:"lastUsed,omitempty"`
	Location          *string            `json:"location,omitempty"`
	MaintenanceStatus *MaintenanceStatus `json:"maintenanceStatus,omitempty" validate:"omitempty,maintenance"`
	SerialNumber      *string            `json:"serialNumber,omitempty"`
	PurchaseDate      *string            `json:"purchaseDate,omitempty"`
	PurchasePrice     *string            `json:"purchasePrice,omitempty"`
}

// Apply returns a copy of item with the set fields of p merged in.
func (p ItemPatch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
	if p.Notes != nil {
		item.Notes = *p.Notes
	}
	if p.LastUsed != nil {
		item.LastUsed = *p.LastUsed
	}
	if p.Location != nil {
		item.Location = *p.Location
	}
	if p.MaintenanceStatus != nil {
		item.MaintenanceStatus = *p.MaintenanceStatus
	}
	if p.SerialNumber != nil {
		item.SerialNumber = *p.SerialNumber
	}
	if p.PurchaseDate != nil {
		item.PurchaseDate = *p.PurchaseDate
	}
	if p.PurchasePrice != nil {
		item.PurchasePrice = *p.PurchasePrice
	}
	return item
}

// SuggestedCategories are the categories offered when creating an item.
// Category itself is free-form.
var SuggestedCategories = []string{
	"Audio",
	"Lighting",
	"Stage",
	"Instruments",
	"DJ Equipment",
	"Cables",
	"Cases",
	"Other",
}
