package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
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

var ctx = context.Background()

func newGenreService(t *testing.T) (*service.GenreService, *mocks.GenreStore) {
	t.Helper()
	store := &mocks.GenreStore{}
	t.Cleanup(func() { store.AssertExpectations(t) })
	log, _ := test.NewNullLogger()
	return service.NewGenreService(store, log), store
}

func TestGenreService_CreateAssignsID(t *testing.T) {
	svc, store := newGenreService(t)
	store.On("ExistsByName", ctx, "Horror").Return(false, nil)
	store.On("Save", ctx, &model.Genre{Name: "Horror"}).
		Return(&model.Genre{ID: uuid.New(), Name: "Horror"}, nil)

	g, err := svc.Create(ctx, &model.Genre{Name: "Horror"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, g.ID)
	assert.Equal(t, "Horror", g.Name)
}

func TestGenreService_CreateDuplicateName(t *testing.T) {
	for _, name := range []string{"Horror", "horror"} {
		t.Run(name, func(t *testing.T) {
			svc, store := newGenreService(t)
			// the store collation is case-insensitive, so both spellings collide
			store.On("ExistsByName", ctx, name).Return(true, nil)

			_, err := svc.Create(ctx, &model.Genre{Name: name})
			assert.ErrorIs(t, err, apperr.ErrInvalidName)
			assert.True(t, apperr.IsNameInUse(err))
			store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestGenreService_CreateRaceOnUniqueIndex(t *testing.T) {
	svc, store := newGenreService(t)
	store.On("ExistsByName", ctx, "Horror").Return(false, nil)
	store.On("Save", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)

	_, err := svc.Create(ctx, &model.Genre{Name: "Horror"})
	assert.True(t, apperr.IsNameInUse(err))
}

func TestGenreService_CreateInvalid(t *testing.T) {
	svc, _ := newGenreService(t)
	for _, g := range []*model.Genre{nil, {Name: "Sci"}, {Name: "   abcd   "}} {
		_, err := svc.Create(ctx, g)
		assert.ErrorIs(t, err, apperr.ErrInvalidEntity)
	}
}

func TestGenreService_ListAllEmpty(t *testing.T) {
	svc, store := newGenreService(t)
	store.On("FindAll", ctx).Return([]*model.Genre{}, nil)

	_, err := svc.ListAll(ctx)
	assert.ErrorIs(t, err, apperr.ErrNoItems)
}

func TestGenreService_ListAllStoreError(t *testing.T) {
	svc, store := newGenreService(t)
	boom := errors.New("connection reset")
	store.On("FindAll", ctx).Return(nil, boom)

	_, err := svc.ListAll(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(err))
}

func TestGenreService_GetByID(t *testing.T) {
	svc, store := newGenreService(t)
	id := uuid.New()
	store.On("FindByID", ctx, id).Return(&model.Genre{ID: id, Name: "Horror"}, nil)
	missing := uuid.New()
	store.On("FindByID", ctx, missing).Return(nil, repository.ErrNotFound)

	g, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, g.ID)

	_, err = svc.GetByID(ctx, missing)
	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}

func TestGenreService_GetByName(t *testing.T) {
	svc, store := newGenreService(t)
	store.On("FindByName", ctx, "Comedy").Return(nil, repository.ErrNotFound)

	_, err := svc.GetByName(ctx, "Comedy")
	assert.ErrorIs(t, err, apperr.ErrInvalidName)
	assert.False(t, apperr.IsNameInUse(err))

	_, err = svc.GetByName(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidEntity, "shape is checked before lookup")
}

func TestGenreService_EditUnknownID(t *testing.T) {
	svc, store := newGenreService(t)
	id := uuid.New()
	store.On("ExistsByID", ctx, id).Return(false, nil)

	_, err := svc.Edit(ctx, &model.Genre{ID: id, Name: "Thriller"})
	assert.ErrorIs(t, err, apperr.ErrInvalidID)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGenreService_Edit(t *testing.T) {
	svc, store := newGenreService(t)
	g := &model.Genre{ID: uuid.New(), Name: "Thriller"}
	store.On("ExistsByID", ctx, g.ID).Return(true, nil)
	store.On("Save", ctx, g).Return(g, nil)

	out, err := svc.Edit(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, g, out)
}

func TestGenreService_DeleteByID(t *testing.T) {
	svc, store := newGenreService(t)
	id, missing := uuid.New(), uuid.New()
	store.On("ExistsByID", ctx, id).Return(true, nil)
	store.On("DeleteByID", ctx, id).Return(nil)
	store.On("ExistsByID", ctx, missing).Return(false, nil)

	require.NoError(t, svc.DeleteByID(ctx, id))
	assert.ErrorIs(t, svc.DeleteByID(ctx, missing), apperr.ErrInvalidID)
}

func TestGenreService_DeleteStillReferenced(t *testing.T) {
	svc, store := newGenreService(t)
	id := uuid.New()
	store.On("ExistsByID", ctx, id).Return(true, nil)
	store.On("DeleteByID", ctx, id).Return(repository.ErrConflict)

	assert.ErrorIs(t, svc.DeleteByID(ctx, id), repository.ErrConflict)
}

func TestGenreService_CheckNameAvailable(t *testing.T) {
	svc, store := newGenreService(t)
	own, other := uuid.New(), uuid.New()
	store.On("FindByName", ctx, "Horror").Return(&model.Genre{ID: own, Name: "Horror"}, nil)
	store.On("FindByName", ctx, "Comedy").Return(nil, repository.ErrNotFound)
	boom := errors.New("timeout")
	store.On("FindByName", ctx, "Broken").Return(nil, boom)

	assert.NoError(t, svc.CheckNameAvailable(ctx, "Horror", own), "renaming to own name")
	assert.True(t, apperr.IsNameInUse(svc.CheckNameAvailable(ctx, "Horror", other)))
	assert.NoError(t, svc.CheckNameAvailable(ctx, "Comedy", own), "unknown name is free")
	assert.NoError(t, svc.CheckNameAvailable(ctx, "abc", own), "malformed name left to Edit")
	assert.ErrorIs(t, svc.CheckNameAvailable(ctx, "Broken", own), boom)
}

func TestNewGenreService_NilStorePanics(t *testing.T) {
	assert.Panics(t, func() { service.NewGenreService(nil, nil) })
}

func TestGenreService_CreateStoresTrimmedName(t *testing.T) {
	svc, store := newGenreService(t)
	padded := "  " + strings.Repeat("a", 50) + "  "
	store.On("ExistsByName", ctx, strings.Repeat("a", 50)).Return(false, nil)
	store.On("Save", ctx, &model.Genre{Name: strings.Repeat("a", 50)}).
		Return(&model.Genre{ID: uuid.New(), Name: strings.Repeat("a", 50)}, nil)

	in := &model.Genre{Name: padded}
	g, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Len(t, g.Name, 50)
	assert.Equal(t, padded, in.Name, "caller's value is not mutated")
}

func TestGenreService_PaddedNameCollides(t *testing.T) {
	svc, store := newGenreService(t)
	store.On("ExistsByName", ctx, "Horror").Return(true, nil)

	_, err := svc.Create(ctx, &model.Genre{Name: "Horror "})
	assert.True(t, apperr.IsNameInUse(err))
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGenreService_EditTrimsAndLookupTrims(t *testing.T) {
	svc, store := newGenreService(t)
	id := uuid.New()
	store.On("ExistsByID", ctx, id).Return(true, nil)
	store.On("Save", ctx, &model.Genre{ID: id, Name: "Thriller"}).Return(&model.Genre{ID: id, Name: "Thriller"}, nil)
	store.On("FindByName", ctx, "Thriller").Return(&model.Genre{ID: id, Name: "Thriller"}, nil)

	_, err := svc.Edit(ctx, &model.Genre{ID: id, Name: " Thriller\t"})
	require.NoError(t, err)
	g, err := svc.GetByName(ctx, "  Thriller ")
	require.NoError(t, err)
	assert.Equal(t, id, g.ID)
}
