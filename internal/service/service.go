// Package service implements the catalog, customer and rental use cases.
// Each service applies the validation rules, checks existence and
// uniqueness through its store and enforces ownership where a resource
// belongs to a single customer. Failures are returned as *apperr.Error
// values; store failures are wrapped and passed through untouched.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/repository"
)

func loggerOrDefault(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}

// notFound maps repository.ErrNotFound to the given domain error and
// leaves every other error alone.
func notFound(err error, mapped *apperr.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return mapped
	}
	return err
}

// trimmedGenre returns a copy of g with the name trimmed. Names are
// stored the way they were length checked.
func trimmedGenre(g *model.Genre) *model.Genre {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Name = strings.TrimSpace(cp.Name)
	return &cp
}

func trimmedMovie(m *model.Movie) *model.Movie {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Title = strings.TrimSpace(cp.Title)
	return &cp
}

func trimmedCustomer(c *model.Customer) *model.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Name = strings.TrimSpace(cp.Name)
	return &cp
}

// saveFailed wraps a store Save failure. A unique index violation means a
// concurrent writer took the name first and is reported like any other
// duplicate.
func saveFailed(what string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.NameInUse()
	}
	return fmt.Errorf("save %s: %w", what, err)
}
