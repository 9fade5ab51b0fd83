// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/movie-rental/internal/model"
)

// RentalCreatedQueue is the durable queue rental events are routed to.
const RentalCreatedQueue = "rental.created"

// dateLayout is used for the calendar-day fields of rental events.
const dateLayout = "2006-01-02"

// RentalCreatedEvent is published after a rental has been stored. It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type RentalCreatedEvent struct {
	RentalID     string `json:"rental_id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	MovieID      string `json:"movie_id"`
	MovieTitle   string `json:"movie_title"`
	GenreName    string `json:"genre_name,omitempty"`
	RentalDate   string `json:"rental_date"`
	ReturnDate   string `json:"return_date"`
	Fee          string `json:"fee"`
	CreatedAt    string `json:"created_at"`
}

// NewRentalCreatedEvent flattens a stored rental into its event payload.
// Fee keeps its exact decimal string form.
func NewRentalCreatedEvent(r *model.Rental, at time.Time) RentalCreatedEvent {
	ev := RentalCreatedEvent{
		RentalID:   r.ID.String(),
		RentalDate: r.RentalDate.Format(dateLayout),
		ReturnDate: r.ReturnDate.Format(dateLayout),
		Fee:        r.Fee.String(),
		CreatedAt:  at.UTC().Format(time.RFC3339),
	}
	if c := r.Customer; c != nil {
		ev.CustomerID = c.ID.String()
		ev.CustomerName = c.Name
	}
	if m := r.Movie; m != nil {
		ev.MovieID = m.ID.String()
		ev.MovieTitle = m.Title
		if m.Genre != nil {
			ev.GenreName = m.Genre.Name
		}
	}
	return ev
}
