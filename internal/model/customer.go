package model

import "github.com/google/uuid"

// Roles recognised by the router. A customer carries exactly one.
const (
	RoleCustomer = "CUSTOMER"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

// Customer is an account that owns rentals. The same record is the
// authenticated principal, so its ID is the value carried in the JWT
// subject claim.
//
// Fields:
//
//	ID           – primary key.
//	Name         – unique login/display name.
//	Phone        – ten digit contact number.
//	Gold         – loyalty tier flag.
//	Role         – CUSTOMER, EMPLOYEE or ADMIN.
//	PasswordHash – bcrypt hash; never serialized.
type Customer struct {
	ID           uuid.UUID `json:"id"`    // customers.id
	Name         string    `json:"name"`  // customers.name
	Phone        string    `json:"phone"` // customers.phone
	Gold         bool      `json:"gold"`  // customers.gold
	Role         string    `json:"role"`  // customers.role
	PasswordHash string    `json:"-"`     // customers.password_hash
}
