package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/access"
	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/validation"
)

// CustomerService manages customer accounts. Self-service updates and
// deletes take the authenticated principal explicitly.
type CustomerService struct {
	store CustomerStore
	log   logrus.FieldLogger
}

// NewCustomerService constructs a CustomerService. A nil logger falls
// back to the logrus standard logger.
func NewCustomerService(store CustomerStore, log logrus.FieldLogger) *CustomerService {
	if store == nil {
		panic("nil store passed to NewCustomerService")
	}
	return &CustomerService{store: store, log: loggerOrDefault(log)}
}

// ListAll returns every customer or NoItems.
func (s *CustomerService) ListAll(ctx context.Context) ([]*model.Customer, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if len(items) == 0 {
		return nil, apperr.NoItems("No Items")
	}
	return items, nil
}

// GetByID returns the customer or InvalidID.
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.InvalidID("Invalid Id"))
	}
	return c, nil
}

// GetByName reports a malformed name as InvalidEntity and a missing
// customer as InvalidName.
func (s *CustomerService) GetByName(ctx context.Context, name string) (*model.Customer, error) {
	name = strings.TrimSpace(name)
	if err := validation.Name(name); err != nil {
		return nil, err
	}
	c, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, notFound(err, apperr.InvalidName("Invalid Name"))
	}
	return c, nil
}

// Create validates and stores a new customer. Names are unique; a taken
// name is InvalidName. Customers without a role become CUSTOMER.
func (s *CustomerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	c = trimmedCustomer(c)
	if err := validation.Customer(c); err != nil {
		return nil, err
	}
	taken, err := s.store.ExistsByName(ctx, c.Name)
	if err != nil {
		return nil, fmt.Errorf("check customer name: %w", err)
	}
	if taken {
		return nil, apperr.NameInUse()
	}
	if c.Role == "" {
		c.Role = model.RoleCustomer
	}
	saved, err := s.store.Save(ctx, c)
	if err != nil {
		return nil, saveFailed("customer", err)
	}
	s.log.WithField("customer_id", saved.ID).Info("customer created")
	return saved, nil
}

// UpdateByID replaces the caller's own profile. The checks run in a fixed
// order: shape, then ownership, then existence, so a caller probing
// someone else's id learns nothing about whether it exists.
func (s *CustomerService) UpdateByID(ctx context.Context, c *model.Customer, callerID uuid.UUID) (*model.Customer, error) {
	c = trimmedCustomer(c)
	if err := validation.Customer(c); err != nil {
		return nil, err
	}
	if err := access.Authorize(c.ID, callerID); err != nil {
		return nil, err
	}
	if err := s.checkExistsByID(ctx, c.ID); err != nil {
		return nil, err
	}
	saved, err := s.store.Save(ctx, c)
	if err != nil {
		return nil, saveFailed("customer", err)
	}
	s.log.WithField("customer_id", saved.ID).Info("customer updated")
	return saved, nil
}

// DeleteByID removes the caller's own account. Ownership is checked
// before the store is consulted at all.
func (s *CustomerService) DeleteByID(ctx context.Context, targetID, callerID uuid.UUID) error {
	if err := access.Authorize(targetID, callerID); err != nil {
		return err
	}
	if err := s.checkExistsByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, targetID); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.log.WithField("customer_id", targetID).Info("customer deleted")
	return nil
}

func (s *CustomerService) checkExistsByID(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check customer id: %w", err)
	}
	if !ok {
		return apperr.InvalidID("Invalid id")
	}
	return nil
}

// ChangeRole grants role to an existing customer. Only administrators
// reach it; the router enforces that.
func (s *CustomerService) ChangeRole(ctx context.Context, id uuid.UUID, role string) (*model.Customer, error) {
	if err := validation.Role(role); err != nil {
		return nil, err
	}
	if err := s.checkExistsByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateRole(ctx, id, role); err != nil {
		return nil, fmt.Errorf("update customer role: %w", err)
	}
	s.log.WithFields(logrus.Fields{"customer_id": id, "role": role}).Info("customer role changed")
	return s.GetByID(ctx, id)
}
