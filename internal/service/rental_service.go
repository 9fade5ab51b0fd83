package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/access"
	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/validation"
)

// RentalService owns the rental lifecycle: creation with server derived
// dates and fee, and owner scoped reads. Rentals are create and read
// only.
type RentalService struct {
	store     RentalStore
	publisher EventPublisher
	now       func() time.Time
	log       logrus.FieldLogger
}

// RentalOption customises a RentalService.
type RentalOption func(*RentalService)

// WithClock overrides the time source used to derive rental dates.
func WithClock(now func() time.Time) RentalOption {
	return func(s *RentalService) { s.now = now }
}

// WithPublisher announces created rentals through p.
func WithPublisher(p EventPublisher) RentalOption {
	return func(s *RentalService) { s.publisher = p }
}

// NewRentalService constructs a RentalService on the wall clock with no
// publisher; opts override either. A nil logger falls back to the logrus
// standard logger.
func NewRentalService(store RentalStore, log logrus.FieldLogger, opts ...RentalOption) *RentalService {
	if store == nil {
		panic("nil store passed to NewRentalService")
	}
	s := &RentalService{store: store, now: time.Now, log: loggerOrDefault(log)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns every rental or NoItems.
func (s *RentalService) ListAll(ctx context.Context) ([]*model.Rental, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	return nonEmptyRentals(items)
}

// ListByOwner returns ownerID's rentals on behalf of callerID. The
// ownership check runs first, so a foreign caller gets AccessDenied even
// when the owner has no rentals.
func (s *RentalService) ListByOwner(ctx context.Context, ownerID, callerID uuid.UUID) ([]*model.Rental, error) {
	if err := access.Authorize(ownerID, callerID); err != nil {
		return nil, err
	}
	return s.ListByCustomer(ctx, ownerID)
}

// ListByCustomer returns a customer's rentals without an ownership check.
// It backs the employee view; routing decides who may reach it.
func (s *RentalService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Rental, error) {
	items, err := s.store.FindAllByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list rentals by customer: %w", err)
	}
	return nonEmptyRentals(items)
}

// GetByID loads a rental and then checks the caller owns it. Existence is
// checked first because the owner is only known once the row is loaded.
func (s *RentalService) GetByID(ctx context.Context, id, callerID uuid.UUID) (*model.Rental, error) {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.InvalidID("Invalid Id"))
	}
	if r.Customer == nil {
		return nil, fmt.Errorf("rental %s has no customer", id)
	}
	if err := access.Authorize(r.Customer.ID, callerID); err != nil {
		return nil, err
	}
	return r, nil
}

// Create stores a new rental. Whatever dates the caller supplied are
// replaced: the rental starts today (UTC) and is due back
// model.RentalPeriodDays later. The fee is DailyRate × days, unrounded.
func (s *RentalService) Create(ctx context.Context, r *model.Rental) (*model.Rental, error) {
	if err := validation.Rental(r); err != nil {
		return nil, err
	}
	toAdd := *r
	toAdd.RentalDate = model.Day(s.now())
	toAdd.ReturnDate = toAdd.RentalDate.AddDate(0, 0, model.RentalPeriodDays)
	toAdd.Fee = toAdd.ComputeFee()
	if toAdd.Fee.IsNegative() {
		return nil, apperr.InvalidEntity("rental fee must not be negative")
	}

	saved, err := s.store.Save(ctx, &toAdd)
	if err != nil {
		return nil, fmt.Errorf("save rental: %w", err)
	}
	entry := s.log.WithFields(logrus.Fields{
		"rental_id":   saved.ID,
		"customer_id": toAdd.Customer.ID,
		"movie_id":    toAdd.Movie.ID,
		"fee":         toAdd.Fee.String(),
	})
	entry.Info("rental created")

	if s.publisher != nil {
		if err := s.publisher.PublishRentalCreated(ctx, saved); err != nil {
			entry.WithError(err).Warn("publish rental.created failed")
		}
	}
	return saved, nil
}

func nonEmptyRentals(items []*model.Rental) ([]*model.Rental, error) {
	if len(items) == 0 {
		return nil, apperr.NoItems("No Items")
	}
	return items, nil
}
