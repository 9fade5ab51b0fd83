package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalPeriodDays is the fixed length of every rental.
const RentalPeriodDays = 7

// Rental records a customer renting one movie. Dates are calendar days
// in UTC and are always derived by the server.
//
// Fields:
//
//	ID         – primary key.
//	Movie      – rented movie (required).
//	Customer   – owning principal (required); drives authorization.
//	RentalDate – day the rental was created.
//	ReturnDate – RentalDate + RentalPeriodDays.
//	Fee        – DailyRate × days rented, stored at creation.
type Rental struct {
	ID         uuid.UUID       `json:"id"`          // rentals.id
	Movie      *Movie          `json:"movie"`       // rentals.movie_id
	Customer   *Customer       `json:"customer"`    // rentals.customer_id
	RentalDate time.Time       `json:"rental_date"` // rentals.rental_date
	ReturnDate time.Time       `json:"return_date"` // rentals.return_date
	Fee        decimal.Decimal `json:"fee"`         // rentals.fee
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysRented returns the number of whole calendar days between the
// rental and return dates.
func (r *Rental) DaysRented() int64 {
	return int64(Day(r.ReturnDate).Sub(Day(r.RentalDate)) / (24 * time.Hour))
}

// ComputeFee returns DailyRate × DaysRented without any rounding, so the
// result keeps the precision of the rate. A rental without a movie costs
// nothing.
func (r *Rental) ComputeFee() decimal.Decimal {
	if r.Movie == nil {
		return decimal.Zero
	}
	return r.Movie.DailyRate.Mul(decimal.NewFromInt(r.DaysRented()))
}
