// Package repository contains the MySQL implementations of the entity
// stores. The sentinel errors below let the service and handler layers
// tell a missing row, a uniqueness violation and a blocked delete apart
// from infrastructure failures.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned by FindByID/FindByName when no row matches.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// index (MySQL error 1062), e.g. two genres racing for the same name.
var ErrDuplicate = errors.New("duplicate key")

// ErrConflict is returned when a delete cannot proceed because other rows
// still reference the record (MySQL error 1451), such as deleting a
// genre that movies still use. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlRowIsReferenced2 = 1217
)

// translate maps driver errors onto the sentinels above.
func translate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlDuplicateEntry:
		return ErrDuplicate
	case mysqlRowIsReferenced, mysqlRowIsReferenced2:
		return ErrConflict
	}
	return err
}
