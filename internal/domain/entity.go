package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by repositories and services when an entity
	// does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a caller modifies an entity it does not own.
	ErrForbidden = errors.New("forbidden")
)

// User is the authenticated caller.
type User struct {
	ID    string
	Email string
}

// Represents a saved touring owned by a user. Routes holds each day's
// serialized Route keyed by ISO-8601 departure instant; list queries leave
// it empty.
type TouringEntity struct {
	ID              string
	Name            string
	Routes          map[string]string
	Publish         bool
	SharedTouringID string
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}

// Touring restores the aggregate held by the entity.
func (e *TouringEntity) Touring(now time.Time) (*Touring, error) {
	t := NewTouring(now)
	if len(e.Routes) == 0 {
		return t, nil
	}
	if err := t.Deserialize(e.Routes); err != nil {
		return nil, err
	}
	return t, nil
}

// Represents a published read-only copy of a touring.
type SharedTouringEntity struct {
	ID        string
	Name      string
	SharedBy  string
	Touring   SharedTouringJSON
	CreatedAt *time.Time
	UpdatedAt *time.Time
}
