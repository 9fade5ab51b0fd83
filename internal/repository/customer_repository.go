package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-rental/internal/model"
)

const customerSelect = "SELECT id, name, phone, gold, role, password_hash FROM customers"

// CustomerRepo encapsulates all queries against the customers table.
type CustomerRepo struct{ db *sql.DB }

// NewCustomerRepo returns a CustomerRepo over db.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Save inserts a new customer with its role and password hash, or
// replaces the profile columns (name, phone, gold) of an existing one.
// Credentials and role are never changed by an update.
func (r *CustomerRepo) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	out := *c
	insert, err := prepareSave(ctx, &out.ID, r.ExistsByID)
	if err != nil {
		return nil, err
	}
	if insert {
		if out.Role == "" {
			out.Role = model.RoleCustomer
		}
		_, err = r.db.ExecContext(ctx,
			"INSERT INTO customers (id, name, phone, gold, role, password_hash) VALUES (?, ?, ?, ?, ?, ?)",
			out.ID, out.Name, out.Phone, out.Gold, out.Role, out.PasswordHash)
		if err != nil {
			return nil, translate(err)
		}
		return &out, nil
	}
	if _, err = r.db.ExecContext(ctx,
		"UPDATE customers SET name = ?, phone = ?, gold = ? WHERE id = ?",
		out.Name, out.Phone, out.Gold, out.ID); err != nil {
		return nil, translate(err)
	}
	// return the stored row so role and hash reflect what is persisted
	return r.FindByID(ctx, out.ID)
}

// FindByID fetches a customer or returns ErrNotFound.
func (r *CustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.findOne(ctx, customerSelect+" WHERE id = ?", id)
}

// FindByName fetches a customer by unique name or returns ErrNotFound.
func (r *CustomerRepo) FindByName(ctx context.Context, name string) (*model.Customer, error) {
	return r.findOne(ctx, customerSelect+" WHERE name = ? LIMIT 1", name)
}

func (r *CustomerRepo) findOne(ctx context.Context, q string, arg any) (*model.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM customers WHERE id = ?)", id)
}

func (r *CustomerRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, "SELECT EXISTS(SELECT 1 FROM customers WHERE name = ?)", name)
}

// DeleteByID removes a customer; their rentals and refresh tokens go with
// them (ON DELETE CASCADE).
func (r *CustomerRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id); err != nil {
		return translate(err)
	}
	return nil
}

func (r *CustomerRepo) FindAll(ctx context.Context) ([]*model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, customerSelect+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCustomer(s scanner) (*model.Customer, error) {
	var c model.Customer
	if err := s.Scan(&c.ID, &c.Name, &c.Phone, &c.Gold, &c.Role, &c.PasswordHash); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateRole sets a customer's role. Unknown ids are a silent no-op.
func (r *CustomerRepo) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE customers SET role = ? WHERE id = ?", role, id); err != nil {
		return translate(err)
	}
	return nil
}
