// Package flags implements the typed key/value store that narrative
// conditions bottom out in. Values are booleans, strings, or numbers;
// numbers are normalized to float64 so content-authored integers and
// floats compare equal.
package flags

import (
	"github.com/nathoo/arcanum/types"
)

// ChangeHandler receives a notification after every mutation.
type ChangeHandler func(types.Change)

// Store holds session-lifetime flag state. Flags survive until the session
// ends or Clear is called; Serialize/Load round-trip them for saves.
type Store struct {
	values   map[string]any
	onChange ChangeHandler
}

// NewStore creates an empty flag store.
func NewStore() *Store {
	return &Store{values: map[string]any{}}
}

// SetChangeHandler registers the single change handler. A nil handler
// disables notification.
func (s *Store) SetChangeHandler(h ChangeHandler) {
	s.onChange = h
}

// Get returns the raw value and whether the key is set.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key and notifies the change handler.
// Numeric types are coerced to float64; a value outside the
// boolean|string|number domain is rejected and the key is untouched.
func (s *Store) Set(key string, value any) {
	v := Normalize(value)
	if v == nil {
		return
	}
	old := s.values[key]
	s.values[key] = v
	s.notify(key, old, v)
}

// Delete removes a key. It notifies only if the key existed.
func (s *Store) Delete(key string) {
	old, ok := s.values[key]
	if !ok {
		return
	}
	delete(s.values, key)
	s.notify(key, old, nil)
}

// Has returns true if the key is set.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Clear removes all flags. One notification fires per removed key.
func (s *Store) Clear() {
	for key, old := range s.values {
		delete(s.values, key)
		s.notify(key, old, nil)
	}
}

// Len returns the number of set flags.
func (s *Store) Len() int {
	return len(s.values)
}

// GetBool returns the flag as a boolean. Absent or non-boolean flags
// return false.
func (s *Store) GetBool(key string) bool {
	b, _ := s.values[key].(bool)
	return b
}

// GetNumber returns the flag as a number. Absent or non-numeric flags
// return 0.
func (s *Store) GetNumber(key string) float64 {
	n, _ := s.values[key].(float64)
	return n
}

// GetString returns the flag as a string. Absent or non-string flags
// return "".
func (s *Store) GetString(key string) string {
	str, _ := s.values[key].(string)
	return str
}

// Truthy reports whether the key is set to something other than false.
// This is the evaluator's "flag present" semantics.
func (s *Store) Truthy(key string) bool {
	v, ok := s.values[key]
	if !ok || v == nil {
		return false
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	return true
}

// Serialize returns a plain key→value copy of the full flag state.
func (s *Store) Serialize() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Load replaces the full flag state with the given snapshot. No change
// notifications fire; restore is not gameplay.
func (s *Store) Load(snapshot map[string]any) {
	s.values = make(map[string]any, len(snapshot))
	for k, v := range snapshot {
		if nv := Normalize(v); nv != nil {
			s.values[k] = nv
		}
	}
}

func (s *Store) notify(key string, old, new any) {
	if s.onChange != nil {
		s.onChange(types.Change{
			Namespace: "flags",
			Key:       key,
			OldValue:  old,
			NewValue:  new,
		})
	}
}

// Normalize coerces any numeric value to float64 and passes bools and
// strings through. Other types come back nil so they read as unset.
func Normalize(v any) any {
	switch n := v.(type) {
	case bool, string, float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return nil
	}
}
