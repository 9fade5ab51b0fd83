package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/validation"
)

// GenreService manages catalog genres.
type GenreService struct {
	store GenreStore
	log   logrus.FieldLogger
}

// NewGenreService constructs a GenreService. A nil logger falls back to
// the logrus standard logger.
func NewGenreService(store GenreStore, log logrus.FieldLogger) *GenreService {
	if store == nil {
		panic("nil store passed to NewGenreService")
	}
	return &GenreService{store: store, log: loggerOrDefault(log)}
}

// ListAll returns every genre. An empty catalog is reported as NoItems.
func (s *GenreService) ListAll(ctx context.Context) ([]*model.Genre, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	if len(items) == 0 {
		return nil, apperr.NoItems("No Items")
	}
	return items, nil
}

// GetByID returns the genre with the given id or InvalidID.
func (s *GenreService) GetByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	g, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.InvalidID("Invalid Id"))
	}
	return g, nil
}

// GetByName validates the name shape (InvalidEntity) and then resolves
// it (InvalidName when missing).
func (s *GenreService) GetByName(ctx context.Context, name string) (*model.Genre, error) {
	name = strings.TrimSpace(name)
	if err := validation.Name(name); err != nil {
		return nil, err
	}
	g, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, notFound(err, apperr.InvalidName("Invalid Name"))
	}
	return g, nil
}

// Create validates and stores a new genre under its trimmed name. A name
// already present in the store is rejected with InvalidName.
func (s *GenreService) Create(ctx context.Context, g *model.Genre) (*model.Genre, error) {
	g = trimmedGenre(g)
	if err := validation.Genre(g); err != nil {
		return nil, err
	}
	taken, err := s.store.ExistsByName(ctx, g.Name)
	if err != nil {
		return nil, fmt.Errorf("check genre name: %w", err)
	}
	if taken {
		return nil, apperr.NameInUse()
	}
	saved, err := s.store.Save(ctx, g)
	if err != nil {
		return nil, saveFailed("genre", err)
	}
	s.log.WithField("genre_id", saved.ID).Info("genre created")
	return saved, nil
}

// Edit replaces an existing genre. The id must already exist.
func (s *GenreService) Edit(ctx context.Context, g *model.Genre) (*model.Genre, error) {
	g = trimmedGenre(g)
	if err := validation.Genre(g); err != nil {
		return nil, err
	}
	if err := s.checkExistsByID(ctx, g.ID); err != nil {
		return nil, err
	}
	saved, err := s.store.Save(ctx, g)
	if err != nil {
		return nil, saveFailed("genre", err)
	}
	s.log.WithField("genre_id", saved.ID).Info("genre updated")
	return saved, nil
}

// DeleteByID removes an existing genre.
func (s *GenreService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.checkExistsByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	s.log.WithField("genre_id", id).Info("genre deleted")
	return nil
}

// CheckNameAvailable is the duplicate-name probe run before an edit. It
// resolves name and fails only when it belongs to a genre other than id.
// A missed lookup or a malformed name is not a conflict (Edit reports
// the shape problem itself); any other failure is returned.
func (s *GenreService) CheckNameAvailable(ctx context.Context, name string, id uuid.UUID) error {
	existing, err := s.GetByName(ctx, name)
	switch {
	case errors.Is(err, apperr.ErrInvalidName), errors.Is(err, apperr.ErrInvalidEntity):
		return nil
	case err != nil:
		return err
	case existing.ID != id:
		return apperr.NameInUse()
	}
	return nil
}

func (s *GenreService) checkExistsByID(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check genre id: %w", err)
	}
	if !ok {
		return apperr.InvalidID("Invalid Id")
	}
	return nil
}
