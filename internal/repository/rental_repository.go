package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-rental/internal/model"
)

// rentalSelect loads a rental with its movie, the movie's genre and the
// owning customer in one round trip.
const rentalSelect = `SELECT r.id, r.rental_date, r.return_date, r.fee,
	       m.id, m.title, m.quantity, m.daily_rate,
	       g.id, g.name,
	       c.id, c.name, c.phone, c.gold, c.role
	FROM rentals r
	JOIN movies m ON m.id = r.movie_id
	JOIN genres g ON g.id = m.genre_id
	JOIN customers c ON c.id = r.customer_id`

// RentalRepo encapsulates all queries against the rentals table. Rentals
// are insert-only.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo returns a RentalRepo over db.
func NewRentalRepo(db *sql.DB) *RentalRepo {
	return &RentalRepo{db: db}
}

// Save inserts a new rental. The movie and customer must already exist.
func (r *RentalRepo) Save(ctx context.Context, rt *model.Rental) (*model.Rental, error) {
	if rt.Movie == nil || rt.Customer == nil {
		return nil, errors.New("rental without movie or customer")
	}
	out := *rt
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	const q = `INSERT INTO rentals (id, movie_id, customer_id, rental_date, return_date, fee)
	           VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		out.ID, out.Movie.ID, out.Customer.ID, out.RentalDate, out.ReturnDate, out.Fee); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindByID fetches a rental or returns ErrNotFound.
func (r *RentalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, rentalSelect+" WHERE r.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rt, nil
}

// FindAll returns every rental, newest first.
func (r *RentalRepo) FindAll(ctx context.Context) ([]*model.Rental, error) {
	return r.list(ctx, rentalSelect+" ORDER BY r.rental_date DESC, r.id")
}

// FindAllByCustomerID returns the rentals owned by a customer, newest
// first.
func (r *RentalRepo) FindAllByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*model.Rental, error) {
	return r.list(ctx, rentalSelect+" WHERE r.customer_id = ? ORDER BY r.rental_date DESC, r.id", customerID)
}

func (r *RentalRepo) list(ctx context.Context, q string, args ...any) ([]*model.Rental, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRental(s scanner) (*model.Rental, error) {
	rt := &model.Rental{
		Movie:    &model.Movie{Genre: &model.Genre{}},
		Customer: &model.Customer{},
	}
	m, c := rt.Movie, rt.Customer
	if err := s.Scan(
		&rt.ID, &rt.RentalDate, &rt.ReturnDate, &rt.Fee,
		&m.ID, &m.Title, &m.Quantity, &m.DailyRate,
		&m.Genre.ID, &m.Genre.Name,
		&c.ID, &c.Name, &c.Phone, &c.Gold, &c.Role,
	); err != nil {
		return nil, err
	}
	return rt, nil
}
