package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/validation"
)

// MovieService manages catalog movies. Callers hand it fully resolved
// genres; turning a genre id into a genre is GenreService's job.
type MovieService struct {
	store MovieStore
	log   logrus.FieldLogger
}

// NewMovieService constructs a MovieService. A nil logger falls back to
// the logrus standard logger.
func NewMovieService(store MovieStore, log logrus.FieldLogger) *MovieService {
	if store == nil {
		panic("nil store passed to NewMovieService")
	}
	return &MovieService{store: store, log: loggerOrDefault(log)}
}

// ListAll returns every movie or NoItems.
func (s *MovieService) ListAll(ctx context.Context) ([]*model.Movie, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return nonEmptyMovies(items)
}

// ListByGenre returns the movies referencing genreID or NoItems.
func (s *MovieService) ListByGenre(ctx context.Context, genreID uuid.UUID) ([]*model.Movie, error) {
	items, err := s.store.FindAllByGenreID(ctx, genreID)
	if err != nil {
		return nil, fmt.Errorf("list movies by genre: %w", err)
	}
	return nonEmptyMovies(items)
}

// ListByGenreName validates the genre name and returns its movies or
// NoItems.
func (s *MovieService) ListByGenreName(ctx context.Context, name string) ([]*model.Movie, error) {
	name = strings.TrimSpace(name)
	if err := validation.Name(name); err != nil {
		return nil, err
	}
	items, err := s.store.FindAllByGenreName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list movies by genre name: %w", err)
	}
	return nonEmptyMovies(items)
}

// GetByID returns the movie or InvalidID.
func (s *MovieService) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	m, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.InvalidID("Invalid Id"))
	}
	return m, nil
}

// Create validates and stores a new movie.
func (s *MovieService) Create(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	m = trimmedMovie(m)
	if err := validation.Movie(m); err != nil {
		return nil, err
	}
	saved, err := s.store.Save(ctx, m)
	if err != nil {
		return nil, saveFailed("movie", err)
	}
	s.log.WithFields(logrus.Fields{"movie_id": saved.ID, "genre_id": m.Genre.ID}).Info("movie created")
	return saved, nil
}

// Update replaces an existing movie.
func (s *MovieService) Update(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	m = trimmedMovie(m)
	if err := validation.Movie(m); err != nil {
		return nil, err
	}
	if err := s.checkExistsByID(ctx, m.ID); err != nil {
		return nil, err
	}
	saved, err := s.store.Save(ctx, m)
	if err != nil {
		return nil, saveFailed("movie", err)
	}
	s.log.WithField("movie_id", saved.ID).Info("movie updated")
	return saved, nil
}

// DeleteByID removes an existing movie.
func (s *MovieService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.checkExistsByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	s.log.WithField("movie_id", id).Info("movie deleted")
	return nil
}

func (s *MovieService) checkExistsByID(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check movie id: %w", err)
	}
	if !ok {
		return apperr.InvalidID("Invalid Id")
	}
	return nil
}

func nonEmptyMovies(items []*model.Movie) ([]*model.Movie, error) {
	if len(items) == 0 {
		return nil, apperr.NoItems("No Items")
	}
	return items, nil
}
