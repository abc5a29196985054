// Package roster holds the character sheets a host is running and serialises
// rule calls per character.
package roster

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
)

// entry pairs a sheet with the lock guarding it.
type entry struct {
	mu    sync.Mutex
	sheet *character.Sheet
}

// Roster tracks character sheets by ID. Calls for one character are
// serialised; calls for different characters run concurrently.
// All methods are safe for concurrent use.
type Roster struct {
	mu         sync.RWMutex
	entries    map[string]*entry // sheet ID → entry
	byTemplate map[string]string // template ID → sheet ID of the most recent sheet
}

// New creates an empty Roster.
func New() *Roster {
	return &Roster{
		entries:    make(map[string]*entry),
		byTemplate: make(map[string]string),
	}
}

// Add registers sheet.
//
// Precondition: sheet must be non-nil with a non-empty ID.
// Postcondition: Returns an error if a sheet with the same ID is already registered.
func (r *Roster) Add(sheet *character.Sheet) error {
	if sheet == nil || sheet.ID == "" {
		return fmt.Errorf("roster: sheet must be non-nil with an ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[sheet.ID]; exists {
		return fmt.Errorf("roster: sheet %q already registered", sheet.ID)
	}
	r.entries[sheet.ID] = &entry{sheet: sheet}
	if sheet.TemplateID != "" {
		r.byTemplate[sheet.TemplateID] = sheet.ID
	}
	return nil
}

// Remove unregisters the sheet with the given ID. A With call already holding
// the sheet finishes normally.
//
// Postcondition: Returns an error if id is not registered.
func (r *Roster) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.entries[id]
	if !exists {
		return fmt.Errorf("roster: sheet %q not found", id)
	}
	if tid := e.sheet.TemplateID; r.byTemplate[tid] == id {
		delete(r.byTemplate, tid)
	}
	delete(r.entries, id)
	return nil
}

// Get returns the sheet with the given ID. The caller must not mutate it
// outside With.
func (r *Roster) Get(id string) (*character.Sheet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.sheet, true
}

// Lookup resolves key as a sheet ID, falling back to a template ID.
func (r *Roster) Lookup(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.entries[key]; ok {
		return key, true
	}
	id, ok := r.byTemplate[key]
	return id, ok
}

// Len returns the number of registered sheets.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns the registered sheet IDs in sorted order.
func (r *Roster) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// With runs fn holding the lock of the sheet with the given ID and returns
// fn's error.
//
// Precondition: fn must not call With for the same id.
// Postcondition: Returns an error without calling fn if id is not registered.
func (r *Roster) With(id string, fn func(*character.Sheet) error) error {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("roster: sheet %q not found", id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sheet)
}
