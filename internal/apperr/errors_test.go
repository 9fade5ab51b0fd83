package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-rental/internal/apperr"
)

func TestErrorIsMatchesKindNotReason(t *testing.T) {
	dup := apperr.InvalidName("name already in use")
	assert.ErrorIs(t, dup, apperr.ErrInvalidName)
	assert.NotErrorIs(t, dup, apperr.ErrInvalidEntity)
	assert.Equal(t, "name already in use", dup.Error())
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("lookup: %w", apperr.AccessDenied("Access Denied"))
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(errors.New("db down")))
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "no_items", apperr.KindNoItems.String())
	assert.Equal(t, "unknown", apperr.Kind(200).String())
	assert.Equal(t, "invalid_id", (&apperr.Error{Kind: apperr.KindInvalidID}).Error())
}

func TestNameInUse(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", apperr.NameInUse())
	assert.True(t, apperr.IsNameInUse(err))
	assert.ErrorIs(t, err, apperr.ErrInvalidName)
	assert.False(t, apperr.IsNameInUse(apperr.InvalidName("Invalid Name")))
	assert.False(t, apperr.IsNameInUse(errors.New(apperr.ReasonNameInUse)))
}
