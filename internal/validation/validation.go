// Package validation holds the field rules every entity must satisfy
// before it reaches the store. The functions are pure: they inspect the
// candidate and return nil or an apperr.KindInvalidEntity error naming
// the rule that failed.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/model"
)

const (
	NameMin  = 5
	NameMax  = 50
	TitleMin = 5
	TitleMax = 255
	QtyMin   = 0
	QtyMax   = 99999
)

var (
	RateMin = decimal.RequireFromString("0.00")
	RateMax = decimal.RequireFromString("99.99")

	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// trimmedLen counts runes after trimming surrounding whitespace.
func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func inRange(s string, lo, hi int) bool {
	n := trimmedLen(s)
	return n >= lo && n <= hi
}

// Name checks a standalone name such as a lookup key. A blank name and a
// name of the wrong length are reported with different reasons; both are
// KindInvalidEntity.
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.InvalidEntity("name is required")
	}
	if !inRange(name, NameMin, NameMax) {
		return apperr.InvalidEntity("name must be between 5 and 50 characters")
	}
	return nil
}

// Genre validates a genre before create or edit.
func Genre(g *model.Genre) error {
	if g == nil {
		return apperr.InvalidEntity("genre is required")
	}
	if !inRange(g.Name, NameMin, NameMax) {
		return apperr.InvalidEntity("genre name must be between 5 and 50 characters")
	}
	return nil
}

// Movie validates a movie before create or update.
func Movie(m *model.Movie) error {
	switch {
	case m == nil:
		return apperr.InvalidEntity("movie is required")
	case !inRange(m.Title, TitleMin, TitleMax):
		return apperr.InvalidEntity("movie title must be between 5 and 255 characters")
	case m.Genre == nil:
		return apperr.InvalidEntity("movie genre is required")
	case m.Quantity < QtyMin || m.Quantity > QtyMax:
		return apperr.InvalidEntity("movie quantity must be between 0 and 99999")
	}
	return DailyRate(m.DailyRate)
}

// DailyRate accepts 0.00..99.99 inclusive with at most two fractional
// digits.
func DailyRate(rate decimal.Decimal) error {
	if rate.LessThan(RateMin) || rate.GreaterThan(RateMax) {
		return apperr.InvalidEntity("daily rate must be between 0.00 and 99.99")
	}
	if !rate.Equal(rate.Truncate(2)) {
		return apperr.InvalidEntity("daily rate must have at most 2 decimal places")
	}
	return nil
}

// Phone requires exactly ten ASCII digits, nothing else.
func Phone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return apperr.InvalidEntity("phone must be exactly 10 digits")
	}
	return nil
}

// Customer validates a customer before create or update.
func Customer(c *model.Customer) error {
	if c == nil {
		return apperr.InvalidEntity("customer is required")
	}
	if err := Phone(c.Phone); err != nil {
		return err
	}
	if !inRange(c.Name, NameMin, NameMax) {
		return apperr.InvalidEntity("customer name must be between 5 and 50 characters")
	}
	return nil
}

// Rental validates a rental at creation. Dates and fee are computed by
// the server and are not checked here.
func Rental(r *model.Rental) error {
	switch {
	case r == nil:
		return apperr.InvalidEntity("rental is required")
	case r.Movie == nil:
		return apperr.InvalidEntity("rental movie is required")
	case r.Customer == nil:
		return apperr.InvalidEntity("rental customer is required")
	}
	return nil
}

// Role accepts the three known roles only.
func Role(role string) error {
	switch role {
	case model.RoleCustomer, model.RoleEmployee, model.RoleAdmin:
		return nil
	}
	return apperr.InvalidEntity("role must be one of CUSTOMER, EMPLOYEE, ADMIN")
}
