// Package mocks provides testify mocks for the service store and
// publisher interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/movie-rental/internal/model"
)

// GenreStore mocks service.GenreStore.
type GenreStore struct{ mock.Mock }

func (m *GenreStore) Save(ctx context.Context, g *model.Genre) (*model.Genre, error) {
	args := m.Called(ctx, g)
	out, _ := args.Get(0).(*model.Genre)
	return out, args.Error(1)
}

func (m *GenreStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Genre)
	return out, args.Error(1)
}

func (m *GenreStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *GenreStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *GenreStore) FindAll(ctx context.Context) ([]*model.Genre, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*model.Genre)
	return out, args.Error(1)
}

func (m *GenreStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *GenreStore) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	args := m.Called(ctx, name)
	out, _ := args.Get(0).(*model.Genre)
	return out, args.Error(1)
}

// MovieStore mocks service.MovieStore.
type MovieStore struct{ mock.Mock }

func (m *MovieStore) Save(ctx context.Context, mv *model.Movie) (*model.Movie, error) {
	args := m.Called(ctx, mv)
	out, _ := args.Get(0).(*model.Movie)
	return out, args.Error(1)
}

func (m *MovieStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Movie)
	return out, args.Error(1)
}

func (m *MovieStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MovieStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MovieStore) FindAll(ctx context.Context) ([]*model.Movie, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*model.Movie)
	return out, args.Error(1)
}

func (m *MovieStore) FindAllByGenreID(ctx context.Context, genreID uuid.UUID) ([]*model.Movie, error) {
	args := m.Called(ctx, genreID)
	out, _ := args.Get(0).([]*model.Movie)
	return out, args.Error(1)
}

func (m *MovieStore) FindAllByGenreName(ctx context.Context, name string) ([]*model.Movie, error) {
	args := m.Called(ctx, name)
	out, _ := args.Get(0).([]*model.Movie)
	return out, args.Error(1)
}

// CustomerStore mocks service.CustomerStore.
type CustomerStore struct{ mock.Mock }

func (m *CustomerStore) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*model.Customer)
	return out, args.Error(1)
}

func (m *CustomerStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Customer)
	return out, args.Error(1)
}

func (m *CustomerStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *CustomerStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CustomerStore) FindAll(ctx context.Context) ([]*model.Customer, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*model.Customer)
	return out, args.Error(1)
}

func (m *CustomerStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *CustomerStore) FindByName(ctx context.Context, name string) (*model.Customer, error) {
	args := m.Called(ctx, name)
	out, _ := args.Get(0).(*model.Customer)
	return out, args.Error(1)
}

func (m *CustomerStore) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return m.Called(ctx, id, role).Error(0)
}

// RentalStore mocks service.RentalStore.
type RentalStore struct{ mock.Mock }

func (m *RentalStore) Save(ctx context.Context, r *model.Rental) (*model.Rental, error) {
	args := m.Called(ctx, r)
	out, _ := args.Get(0).(*model.Rental)
	return out, args.Error(1)
}

func (m *RentalStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Rental)
	return out, args.Error(1)
}

func (m *RentalStore) FindAll(ctx context.Context) ([]*model.Rental, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*model.Rental)
	return out, args.Error(1)
}

func (m *RentalStore) FindAllByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*model.Rental, error) {
	args := m.Called(ctx, customerID)
	out, _ := args.Get(0).([]*model.Rental)
	return out, args.Error(1)
}

// Publisher mocks service.EventPublisher.
type Publisher struct{ mock.Mock }

func (m *Publisher) PublishRentalCreated(ctx context.Context, r *model.Rental) error {
	return m.Called(ctx, r).Error(0)
}
