package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-rental/internal/model"
)

// movieSelect loads a movie together with its genre.
const movieSelect = `SELECT m.id, m.title, m.quantity, m.daily_rate, g.id, g.name
	FROM movies m
	JOIN genres g ON g.id = m.genre_id`

// MovieRepo encapsulates all queries against the movies table.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a MovieRepo over db.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Save inserts or replaces a movie. Only the genre id is persisted; the
// genre row itself is never written here.
func (r *MovieRepo) Save(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	if m.Genre == nil {
		return nil, errors.New("movie without genre")
	}
	out := *m
	insert, err := prepareSave(ctx, &out.ID, r.ExistsByID)
	if err != nil {
		return nil, err
	}
	if insert {
		_, err = r.db.ExecContext(ctx,
			"INSERT INTO movies (id, title, genre_id, quantity, daily_rate) VALUES (?, ?, ?, ?, ?)",
			out.ID, out.Title, out.Genre.ID, out.Quantity, out.DailyRate)
	} else {
		_, err = r.db.ExecContext(ctx,
			"UPDATE movies SET title = ?, genre_id = ?, quantity = ?, daily_rate = ? WHERE id = ?",
			out.Title, out.Genre.ID, out.Quantity, out.DailyRate, out.ID)
	}
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindByID fetches a movie or returns ErrNotFound.
func (r *MovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx, movieSelect+" WHERE m.id = ?", id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MovieRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)", id)
}

// DeleteByID removes a movie. Rentals referencing it block the delete
// with ErrConflict.
func (r *MovieRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id); err != nil {
		return translate(err)
	}
	return nil
}

func (r *MovieRepo) FindAll(ctx context.Context) ([]*model.Movie, error) {
	return r.list(ctx, movieSelect+" ORDER BY m.title")
}

func (r *MovieRepo) FindAllByGenreID(ctx context.Context, genreID uuid.UUID) ([]*model.Movie, error) {
	return r.list(ctx, movieSelect+" WHERE g.id = ? ORDER BY m.title", genreID)
}

func (r *MovieRepo) FindAllByGenreName(ctx context.Context, name string) ([]*model.Movie, error) {
	return r.list(ctx, movieSelect+" WHERE g.name = ? ORDER BY m.title", name)
}

func (r *MovieRepo) list(ctx context.Context, q string, args ...any) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(s scanner) (*model.Movie, error) {
	m := &model.Movie{Genre: &model.Genre{}}
	if err := s.Scan(&m.ID, &m.Title, &m.Quantity, &m.DailyRate, &m.Genre.ID, &m.Genre.Name); err != nil {
		return nil, err
	}
	return m, nil
}
