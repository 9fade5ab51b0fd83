package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/fixtures/mocks"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/service"
)

func newMovieService(t *testing.T) (*service.MovieService, *mocks.MovieStore) {
	t.Helper()
	store := &mocks.MovieStore{}
	t.Cleanup(func() { store.AssertExpectations(t) })
	return service.NewMovieService(store, nil), store
}

func sampleMovie() *model.Movie {
	return &model.Movie{
		Title:     "Disaster Artist",
		Genre:     &model.Genre{ID: uuid.New(), Name: "Horror"},
		Quantity:  100,
		DailyRate: decimal.RequireFromString("9.99"),
	}
}

func TestMovieService_Create(t *testing.T) {
	svc, store := newMovieService(t)
	m := sampleMovie()
	saved := *m
	saved.ID = uuid.New()
	store.On("Save", ctx, m).Return(&saved, nil)

	out, err := svc.Create(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, out.ID)
	assert.Equal(t, "Horror", out.Genre.Name)
}

func TestMovieService_CreateInvalid(t *testing.T) {
	svc, store := newMovieService(t)
	cases := map[string]func(m *model.Movie){
		"short title":    func(m *model.Movie) { m.Title = "Jaws" },
		"no genre":       func(m *model.Movie) { m.Genre = nil },
		"negative stock": func(m *model.Movie) { m.Quantity = -1 },
		"too much stock": func(m *model.Movie) { m.Quantity = 100000 },
		"rate too high":  func(m *model.Movie) { m.DailyRate = decimal.RequireFromString("100.00") },
		"rate precision": func(m *model.Movie) { m.DailyRate = decimal.RequireFromString("9.999") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := sampleMovie()
			mutate(m)
			_, err := svc.Create(ctx, m)
			assert.ErrorIs(t, err, apperr.ErrInvalidEntity)
		})
	}
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMovieService_ListByGenreEmpty(t *testing.T) {
	svc, store := newMovieService(t)
	genreID := uuid.New()
	store.On("FindAllByGenreID", ctx, genreID).Return([]*model.Movie{}, nil)

	_, err := svc.ListByGenre(ctx, genreID)
	assert.ErrorIs(t, err, apperr.ErrNoItems)
}

func TestMovieService_ListByGenreName(t *testing.T) {
	svc, store := newMovieService(t)
	m := sampleMovie()
	store.On("FindAllByGenreName", ctx, "Horror").Return([]*model.Movie{m}, nil)

	items, err := svc.ListByGenreName(ctx, "Horror")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.ListByGenreName(ctx, "Sci")
	assert.ErrorIs(t, err, apperr.ErrInvalidEntity)
}

func TestMovieService_UpdateUnknownID(t *testing.T) {
	svc, store := newMovieService(t)
	m := sampleMovie()
	m.ID = uuid.New()
	store.On("ExistsByID", ctx, m.ID).Return(false, nil)

	_, err := svc.Update(ctx, m)
	assert.ErrorIs(t, err, apperr.ErrInvalidID)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMovieService_GetAndDelete(t *testing.T) {
	svc, store := newMovieService(t)
	m := sampleMovie()
	m.ID = uuid.New()
	store.On("FindByID", ctx, m.ID).Return(m, nil)
	store.On("ExistsByID", ctx, m.ID).Return(true, nil)
	store.On("DeleteByID", ctx, m.ID).Return(nil)

	got, err := svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	require.NoError(t, svc.DeleteByID(ctx, m.ID))
}

func TestMovieService_CreateStoresTrimmedTitle(t *testing.T) {
	svc, store := newMovieService(t)
	m := sampleMovie()
	m.Title = "  Disaster Artist  "
	store.On("Save", ctx, mock.MatchedBy(func(m *model.Movie) bool { return m.Title == "Disaster Artist" })).
		Return(&model.Movie{ID: uuid.New(), Title: "Disaster Artist"}, nil)

	_, err := svc.Create(ctx, m)
	require.NoError(t, err)
}
