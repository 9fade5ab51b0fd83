package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-rental/internal/model"
)

// The store interfaces below describe the persistence each service needs.
// FindByID and FindByName return repository.ErrNotFound when nothing
// matches. The MySQL implementations live in internal/repository.

// GenreStore persists genres.
type GenreStore interface {
	Save(ctx context.Context, g *model.Genre) (*model.Genre, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]*model.Genre, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByName(ctx context.Context, name string) (*model.Genre, error)
}

// MovieStore persists movies.
type MovieStore interface {
	Save(ctx context.Context, m *model.Movie) (*model.Movie, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]*model.Movie, error)
	FindAllByGenreID(ctx context.Context, genreID uuid.UUID) ([]*model.Movie, error)
	FindAllByGenreName(ctx context.Context, name string) ([]*model.Movie, error)
}

// CustomerStore persists customers.
type CustomerStore interface {
	Save(ctx context.Context, c *model.Customer) (*model.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]*model.Customer, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByName(ctx context.Context, name string) (*model.Customer, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
}

// RentalStore persists rentals. Rentals are never updated in place.
type RentalStore interface {
	Save(ctx context.Context, r *model.Rental) (*model.Rental, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	FindAll(ctx context.Context) ([]*model.Rental, error)
	FindAllByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*model.Rental, error)
}

// EventPublisher announces created rentals to downstream consumers.
type EventPublisher interface {
	PublishRentalCreated(ctx context.Context, r *model.Rental) error
}
