package store

import (
	"slices"

	"github.com/erazemk/musemate/internal/model"
)

// AddChecklistItems appends an uncompleted entry for each item ID not yet on
// the event's checklist. IDs are not checked against the item collection.
func (s *Store) AddChecklistItems(eventID string, itemIDs []string) {
	s.mutateEvent("add_checklist_items", eventID, func(e model.Event) model.Event {
		checklist := slices.Clip(e.Checklist)
		for _, id := range itemIDs {
			if indexOfEntry(checklist, id) >= 0 {
				continue
			}
			checklist = append(checklist, model.ChecklistEntry{ItemID: id})
		}
		e.Checklist = checklist
		return e
	})
}

// ToggleChecklistItem flips the completed flag of the entry for itemID.
func (s *Store) ToggleChecklistItem(eventID, itemID string) {
	s.mutateEvent("toggle_checklist_item", eventID, func(e model.Event) model.Event {
		i := indexOfEntry(e.Checklist, itemID)
		if i < 0 {
			return e
		}
		entry := e.Checklist[i]
		entry.Completed = !entry.Completed
		e.Checklist = replaceAt(e.Checklist, i, entry)
		return e
	})
}

// RemoveChecklistItem drops the entry for itemID from the event's checklist.
func (s *Store) RemoveChecklistItem(eventID, itemID string) {
	s.mutateEvent("remove_checklist_item", eventID, func(e model.Event) model.Event {
		e.Checklist, _ = without(e.Checklist, func(c model.ChecklistEntry) bool { return c.ItemID == itemID })
		return e
	})
}

func indexOfEntry(checklist []model.ChecklistEntry, itemID string) int {
	return slices.IndexFunc(checklist, func(c model.ChecklistEntry) bool { return c.ItemID == itemID })
}
