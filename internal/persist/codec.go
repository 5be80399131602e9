// Package persist mirrors the store's durable fields into a key-value slot
// and seeds the store from it at startup.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/erazemk/musemate/internal/model"
	"github.com/erazemk/musemate/internal/store"
)

// Key is the slot the state payload lives under.
const Key = "musemate-storage"

// Version is the payload format written by Encode.
const Version = 1

// record is the persisted payload. Templates and the transient loading and
// error fields are never written.
type record struct {
	Version int           `json:"version"`
	Items   []model.Item  `json:"items"`
	Events  []model.Event `json:"events"`
	UserID  *string       `json:"userId"`
}

// Encode serializes the durable fields of state. Dates are written as
// RFC 3339 strings.
func Encode(state store.State) ([]byte, error) {
	rec := record{
		Version: Version,
		Items:   state.Items,
		Events:  state.Events,
	}
	if rec.Items == nil {
		rec.Items = []model.Item{}
	}
	if rec.Events == nil {
		rec.Events = []model.Event{}
	}
	if state.UserID != "" {
		id := state.UserID
		rec.UserID = &id
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Decode parses a payload written by Encode. A payload without a version
// field is read as version 1; any other version is rejected.
func Decode(data []byte) (store.State, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return store.State{}, fmt.Errorf("decoding state: %w", err)
	}
	if rec.Version == 0 {
		rec.Version = 1
	}
	if rec.Version != Version {
		return store.State{}, fmt.Errorf("decoding state: unsupported version %d", rec.Version)
	}

	st := store.Empty()
	if rec.Items != nil {
		st.Items = rec.Items
	}
	if rec.Events != nil {
		st.Events = rec.Events
	}
	if rec.UserID != nil {
		st.UserID = *rec.UserID
	}
	return st, nil
}
