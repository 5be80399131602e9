package store

import (
	"slices"

	"github.com/erazemk/musemate/internal/model"
)

// AddItem assigns a new ID to item and appends it. The ID on the argument is
// ignored.
func (s *Store) AddItem(item model.Item) model.Item {
	item.ID = s.ids.New()
	s.update("add_item", func(st *State) bool {
		st.Items = append(slices.Clip(st.Items), item)
		return true
	})
	return item
}

// Item returns the item with the given ID.
func (s *Store) Item(id string) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfItem(s.state.Items, id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.state.Items[i], true
}

// UpdateItem merges the set fields of patch into the item with the given ID.
func (s *Store) UpdateItem(id string, patch model.ItemPatch) {
	s.update("update_item", func(st *State) bool {
		i := indexOfItem(st.Items, id)
		if i < 0 {
			return false
		}
		st.Items = replaceAt(st.Items, i, patch.Apply(st.Items[i]))
		return true
	})
}

// DeleteItem removes the item with the given ID. Checklist entries that
// reference it are left in place.
func (s *Store) DeleteItem(id string) {
	s.update("delete_item", func(st *State) bool {
		items, changed := without(st.Items, func(it model.Item) bool { return it.ID == id })
		if changed {
			st.Items = items
		}
		return changed
	})
}

func indexOfItem(items []model.Item, id string) int {
	return slices.IndexFunc(items, func(it model.Item) bool { return it.ID == id })
}
