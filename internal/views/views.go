// Package views computes read-only projections of store state: item search,
// event ordering and checklist progress. Nothing here mutates its input.
package views

import (
	"slices"
	"strings"

	"github.com/erazemk/musemate/internal/model"
)

// Availability selects items by how many units are free.
type Availability string

// Availability filter modes.
const (
	AvailabilityAll       Availability = "all"
	AvailabilityAvailable Availability = "available"
	AvailabilityLow       Availability = "low"
)

// Valid reports whether a is a known mode. Empty means all.
func (a Availability) Valid() bool {
	switch a {
	case "", AvailabilityAll, AvailabilityAvailable, AvailabilityLow:
		return true
	}
	return false
}

// lowStockFraction is the share of quantity below which an item is low.
const lowStockFraction = 0.2

// ItemFilter holds the item list filters. Zero values match everything.
type ItemFilter struct {
	Query        string
	Category     string
	Availability Availability
}

// IsLowStock reports whether fewer than 20% of an item's units are free.
// An item with quantity > 0 and nothing available is always low.
func IsLowStock(item model.Item) bool {
	return float64(item.Available) < float64(item.Quantity)*lowStockFraction
}

// Match reports whether item passes every filter in f.
func (f ItemFilter) Match(item model.Item) bool {
	if q := strings.ToLower(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) {
			return false
		}
	}
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	switch f.Availability {
	case AvailabilityAvailable:
		return item.Available > 0
	case AvailabilityLow:
		return IsLowStock(item)
	}
	return true
}

// FilterItems returns the items matching f, in their original order.
func FilterItems(items []model.Item, f ItemFilter) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// ItemCategories returns the distinct categories in use, in first-seen order.
func ItemCategories(items []model.Item) []string {
	var cats []string
	for _, item := range items {
		if !slices.Contains(cats, item.Category) {
			cats = append(cats, item.Category)
		}
	}
	return cats
}

// SortEventsByDate returns a copy of events ordered by date, most recent
// first. Events with equal dates keep their relative order.
func SortEventsByDate(events []model.Event) []model.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b model.Event) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// CompletionRatio is the share of completed entries, 0 for an empty list.
func CompletionRatio(checklist []model.ChecklistEntry) float64 {
	if len(checklist) == 0 {
		return 0
	}
	done := 0
	for _, entry := range checklist {
		if entry.Completed {
			done++
		}
	}
	return float64(done) / float64(len(checklist))
}

// ChecklistCategories returns the distinct categories of the items the
// checklist references, in the order they appear in items. Entries whose
// item no longer exists contribute nothing.
func ChecklistCategories(items []model.Item, checklist []model.ChecklistEntry) []string {
	var cats []string
	for _, item := range items {
		if !slices.ContainsFunc(checklist, func(e model.ChecklistEntry) bool { return e.ItemID == item.ID }) {
			continue
		}
		if !slices.Contains(cats, item.Category) {
			cats = append(cats, item.Category)
		}
	}
	return cats
}

// GroupEntry is one checklist entry resolved to its item.
type GroupEntry struct {
	Item      model.Item `json:"item"`
	Completed bool       `json:"completed"`
}

// CategoryGroup is the checklist entries of one item category.
type CategoryGroup struct {
	Category string       `json:"category"`
	Entries  []GroupEntry `json:"entries"`
	Ratio    float64      `json:"ratio"`
}

// GroupChecklist groups checklist entries by the category of the item they
// reference. Groups follow ChecklistCategories order and entries keep their
// checklist order. Entries for deleted items fall in no group.
func GroupChecklist(items []model.Item, checklist []model.ChecklistEntry) []CategoryGroup {
	byID := make(map[string]model.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	cats := ChecklistCategories(items, checklist)
	groups := make([]CategoryGroup, 0, len(cats))
	for _, cat := range cats {
		g := CategoryGroup{Category: cat, Entries: []GroupEntry{}}
		var entries []model.ChecklistEntry
		for _, entry := range checklist {
			item, ok := byID[entry.ItemID]
			if !ok || item.Category != cat {
				continue
			}
			g.Entries = append(g.Entries, GroupEntry{Item: item, Completed: entry.Completed})
			entries = append(entries, entry)
		}
		g.Ratio = CompletionRatio(entries)
		groups = append(groups, g)
	}
	return groups
}

// Level names a band of checklist progress.
type Level string

// Progress levels, lowest first.
const (
	LevelJustBeginning  Level = "just-beginning"
	LevelGettingStarted Level = "getting-started"
	LevelHalfway        Level = "halfway"
	LevelAlmostThere    Level = "almost-there"
	LevelAllSet         Level = "all-set"
)

// Progress maps a completion ratio to its level. Only a full checklist is
// all set.
func Progress(ratio float64) Level {
	pct := ratio * 100
	switch {
	case pct >= 100:
		return LevelAllSet
	case pct >= 75:
		return LevelAlmostThere
	case pct >= 50:
		return LevelHalfway
	case pct >= 25:
		return LevelGettingStarted
	}
	return LevelJustBeginning
}

// RentalCost sums the cost of every equipment rental of an event.
func RentalCost(event model.Event) float64 {
	var total float64
	for _, r := range event.Equipment {
		total += r.Cost
	}
	return total
}

// TicketsRemaining returns capacity minus sold tickets, and false when the
// event has no ticket capacity recorded.
func TicketsRemaining(event model.Event) (int, bool) {
	if event.Details == nil || event.Details.Ticketing == nil || event.Details.Ticketing.Capacity == nil {
		return 0, false
	}
	t := event.Details.Ticketing
	sold := 0
	if t.SoldCount != nil {
		sold = *t.SoldCount
	}
	return max(*t.Capacity-sold, 0), true
}

// CycleSlot advances one availability slot through none, preferred and
// unavailable, back to none. The input is not modified.
func CycleSlot(a *model.Availability, slot string) model.Availability {
	var next model.Availability
	if a != nil {
		next = a.Clone()
	}
	if next.Preferred == nil {
		next.Preferred = []string{}
	}
	if next.Unavailable == nil {
		next.Unavailable = []string{}
	}

	switch {
	case slices.Contains(next.Preferred, slot):
		next.Preferred = slices.DeleteFunc(next.Preferred, func(s string) bool { return s == slot })
		next.Unavailable = append(next.Unavailable, slot)
	case slices.Contains(next.Unavailable, slot):
		next.Unavailable = slices.DeleteFunc(next.Unavailable, func(s string) bool { return s == slot })
	default:
		next.Preferred = append(next.Preferred, slot)
	}
	return next
}

