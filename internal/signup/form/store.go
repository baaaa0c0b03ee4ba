// Package form holds the sign-up form state: field values and cosmetic
// toggles. Writes never validate; validation is deferred to submission.
package form

import (
	"sync"

	"onboard/internal/signup/models"
)

// Visibility is the state of the password visibility toggles.
type Visibility struct {
	Password        bool `json:"password"`
	ConfirmPassword bool `json:"confirm_password"`
}

// Store is safe for concurrent use. The location acquirer writes the
// resolved address from its own call path while the client keeps typing.
type Store struct {
	mu         sync.RWMutex
	fields     models.FormFields
	visibility Visibility
}

// NewStore returns an empty form.
func NewStore() *Store {
	return &Store{}
}

// SetField replaces the named field unconditionally.
func (s *Store) SetField(field models.Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = s.fields.With(field, value)
}

// Field returns the current value of one field.
func (s *Store) Field(field models.Field) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields.Get(field)
}

// Snapshot returns a copy of every field.
func (s *Store) Snapshot() models.FormFields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields
}

// ToggleVisibility flips one display flag and returns its new value.
func (s *Store) ToggleVisibility(which models.Toggle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch which {
	case models.TogglePassword:
		s.visibility.Password = !s.visibility.Password
		return s.visibility.Password
	case models.ToggleConfirmPassword:
		s.visibility.ConfirmPassword = !s.visibility.ConfirmPassword
		return s.visibility.ConfirmPassword
	}
	return false
}

// Visibility returns the toggle state.
func (s *Store) Visibility() Visibility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibility
}
