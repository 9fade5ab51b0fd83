package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/fixtures/mocks"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/repository"
	"github.com/iliyamo/movie-rental/internal/service"
)

var fixedNow = time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newRental(customer *model.Customer) *model.Rental {
	m := sampleMovie()
	m.ID = uuid.New()
	return &model.Rental{Movie: m, Customer: customer}
}

func TestRentalService_CreateDerivesDatesAndFee(t *testing.T) {
	store := &mocks.RentalStore{}
	defer store.AssertExpectations(t)
	svc := service.NewRentalService(store, nil, service.WithClock(clock))

	customer := &model.Customer{ID: uuid.New(), Name: "Alice Smith"}
	r := newRental(customer)
	// caller supplied values are discarded
	r.RentalDate = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	r.ReturnDate = time.Date(1999, 1, 2, 0, 0, 0, 0, time.UTC)
	r.Fee = decimal.NewFromInt(1)

	var stored *model.Rental
	store.On("Save", ctx, mock.AnythingOfType("*model.Rental")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*model.Rental) }).
		Return(&model.Rental{ID: uuid.New()}, nil)

	_, err := svc.Create(ctx, r)
	require.NoError(t, err)
	require.NotNil(t, stored)

	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today, stored.RentalDate)
	assert.Equal(t, today.AddDate(0, 0, 7), stored.ReturnDate)
	assert.Equal(t, "69.93", stored.Fee.StringFixed(2))
	assert.True(t, stored.Fee.Equal(decimal.RequireFromString("69.93")))
	assert.Equal(t, customer, stored.Customer)
	assert.Equal(t, int64(1), r.Fee.IntPart(), "input rental is not mutated")
}

func TestRentalService_CreateMissingRefs(t *testing.T) {
	store := &mocks.RentalStore{}
	svc := service.NewRentalService(store, nil)

	_, err := svc.Create(ctx, &model.Rental{Movie: sampleMovie()})
	assert.ErrorIs(t, err, apperr.ErrInvalidEntity)
	_, err = svc.Create(ctx, &model.Rental{Customer: &model.Customer{ID: uuid.New()}})
	assert.ErrorIs(t, err, apperr.ErrInvalidEntity)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRentalService_PublishFailureIsNotFatal(t *testing.T) {
	store := &mocks.RentalStore{}
	pub := &mocks.Publisher{}
	log, hook := test.NewNullLogger()
	svc := service.NewRentalService(store, log, service.WithClock(clock), service.WithPublisher(pub))

	saved := &model.Rental{ID: uuid.New()}
	store.On("Save", ctx, mock.Anything).Return(saved, nil)
	pub.On("PublishRentalCreated", ctx, saved).Return(errors.New("broker down"))

	out, err := svc.Create(ctx, newRental(&model.Customer{ID: uuid.New()}))
	require.NoError(t, err)
	assert.Equal(t, saved.ID, out.ID)
	pub.AssertExpectations(t)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
}

func TestRentalService_CreateStoreFailure(t *testing.T) {
	store := &mocks.RentalStore{}
	pub := &mocks.Publisher{}
	svc := service.NewRentalService(store, nil, service.WithPublisher(pub))
	boom := errors.New("deadlock")
	store.On("Save", ctx, mock.Anything).Return(nil, boom)

	_, err := svc.Create(ctx, newRental(&model.Customer{ID: uuid.New()}))
	assert.ErrorIs(t, err, boom)
	pub.AssertNotCalled(t, "PublishRentalCreated", mock.Anything, mock.Anything)
}

func TestRentalService_GetByID(t *testing.T) {
	store := &mocks.RentalStore{}
	svc := service.NewRentalService(store, nil)
	owner := uuid.New()
	id, missing := uuid.New(), uuid.New()
	store.On("FindByID", ctx, id).Return(&model.Rental{ID: id, Customer: &model.Customer{ID: owner}}, nil)
	store.On("FindByID", ctx, missing).Return(nil, repository.ErrNotFound)

	r, err := svc.GetByID(ctx, id, owner)
	require.NoError(t, err)
	assert.Equal(t, id, r.ID)

	_, err = svc.GetByID(ctx, id, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)

	// existence before ownership
	_, err = svc.GetByID(ctx, missing, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}

func TestRentalService_ListByOwner(t *testing.T) {
	store := &mocks.RentalStore{}
	svc := service.NewRentalService(store, nil)
	owner := uuid.New()

	_, err := svc.ListByOwner(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
	store.AssertNotCalled(t, "FindAllByCustomerID", mock.Anything, mock.Anything)

	store.On("FindAllByCustomerID", ctx, owner).Return([]*model.Rental{}, nil)
	_, err = svc.ListByOwner(ctx, owner, owner)
	assert.ErrorIs(t, err, apperr.ErrNoItems)
}

func TestRentalService_ListAll(t *testing.T) {
	store := &mocks.RentalStore{}
	svc := service.NewRentalService(store, nil)
	store.On("FindAll", ctx).Return([]*model.Rental{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
