package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movie is a rentable title. The genre is a weak reference: deleting a
// movie never touches its genre.
//
// Fields:
//
//	ID        – primary key.
//	Title     – display title.
//	Genre     – resolved genre (required).
//	Quantity  – copies in stock, 0..99999.
//	DailyRate – price per rental day, 0.00..99.99.
type Movie struct {
	ID        uuid.UUID       `json:"id"`         // movies.id
	Title     string          `json:"title"`      // movies.title
	Genre     *Genre          `json:"genre"`      // movies.genre_id
	Quantity  int64           `json:"quantity"`   // movies.quantity
	DailyRate decimal.Decimal `json:"daily_rate"` // movies.daily_rate
}
