package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-rental/internal/model"
)

// GenreRepo encapsulates all queries against the genres table. Name
// comparisons follow the column collation (utf8mb4_0900_ai_ci by
// default, so lookups are case-insensitive).
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo constructs a GenreRepo with the provided DB handle.
func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// Save inserts the genre when it has no id or the id is unknown, and
// replaces the stored row otherwise. A fresh id is generated for new
// genres.
func (r *GenreRepo) Save(ctx context.Context, g *model.Genre) (*model.Genre, error) {
	out := *g
	insert, err := prepareSave(ctx, &out.ID, r.ExistsByID)
	if err != nil {
		return nil, err
	}
	if insert {
		_, err = r.db.ExecContext(ctx, "INSERT INTO genres (id, name) VALUES (?, ?)", out.ID, out.Name)
	} else {
		_, err = r.db.ExecContext(ctx, "UPDATE genres SET name = ? WHERE id = ?", out.Name, out.ID)
	}
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindByID fetches a genre by id or returns ErrNotFound.
func (r *GenreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	return r.findOne(ctx, "SELECT id, name FROM genres WHERE id = ?", id)
}

// FindByName fetches a genre by its name or returns ErrNotFound.
func (r *GenreRepo) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	return r.findOne(ctx, "SELECT id, name FROM genres WHERE name = ? LIMIT 1", name)
}

func (r *GenreRepo) findOne(ctx context.Context, q string, arg any) (*model.Genre, error) {
	var g model.Genre
	if err := r.db.QueryRowContext(ctx, q, arg).Scan(&g.ID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ExistsByID reports whether a genre with the id exists.
func (r *GenreRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM genres WHERE id = ?)", id)
}

// ExistsByName reports whether the name is already taken.
func (r *GenreRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM genres WHERE name = ?)", name)
}

// DeleteByID removes a genre. Movies still referencing it make the delete
// fail with ErrConflict.
func (r *GenreRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM genres WHERE id = ?", id); err != nil {
		return translate(err)
	}
	return nil
}

// FindAll returns all genres ordered by name.
func (r *GenreRepo) FindAll(ctx context.Context) ([]*model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM genres ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Genre
	for rows.Next() {
		g := new(model.Genre)
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// prepareSave decides between insert and update. A zero id gets a fresh
// one and is inserted; a known id is updated; an unknown id is inserted
// as given.
func prepareSave(ctx context.Context, id *uuid.UUID, existsByID func(context.Context, uuid.UUID) (bool, error)) (bool, error) {
	if *id == uuid.Nil {
		*id = uuid.New()
		return true, nil
	}
	found, err := existsByID(ctx, *id)
	if err != nil {
		return false, err
	}
	return !found, nil
}

// exists runs a SELECT EXISTS(...) query.
func exists(ctx context.Context, db *sql.DB, q string, args ...any) (bool, error) {
	var ok bool
	if err := db.QueryRowContext(ctx, q, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
