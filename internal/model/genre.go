package model

import "github.com/google/uuid"

// Genre is a catalog category referenced by movies. Names are unique
// across the catalog.
//
// Fields:
//
//	ID   – primary key, assigned by the store on first save.
//	Name – unique human readable name (the natural key).
type Genre struct {
	ID   uuid.UUID `json:"id"`   // genres.id
	Name string    `json:"name"` // genres.name
}
