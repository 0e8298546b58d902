package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabiroku/tabiroku/internal/model"
	"github.com/tabiroku/tabiroku/internal/repository"
)

func TestCreateTripValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.trips.Create(ctx, CreateTripInput{UserID: "default_user", Title: "   ", StartDate: 1000})
	assert.Error(t, err, "blank title")

	_, err = env.trips.Create(ctx, CreateTripInput{UserID: "default_user", Title: strings.Repeat("x", 201), StartDate: 1000})
	assert.Error(t, err, "title too long")

	end := int64(500)
	_, err = env.trips.Create(ctx, CreateTripInput{UserID: "default_user", Title: "Backwards", StartDate: 1000, EndDate: &end})
	assert.Error(t, err, "end before start")

	trip, err := env.trips.Create(ctx, CreateTripInput{UserID: "default_user", Title: "  Japan 2025  ", StartDate: 1000})
	require.NoError(t, err)
	assert.Equal(t, "Japan 2025", trip.Title, "title is trimmed")
	assert.NotEmpty(t, trip.ID)
}

func TestUpdateTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	trip, err := env.trips.Create(ctx, CreateTripInput{UserID: "default_user", Title: "Japan 2025", StartDate: 1000})
	require.NoError(t, err)

	trip.Title = "Japan, spring 2025"
	require.NoError(t, env.trips.Update(ctx, trip))

	got, err := env.trips.ByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Japan, spring 2025", got.Title)

	got.Title = ""
	assert.Error(t, env.trips.Update(ctx, got))
}

func TestDeleteTripRebuildsAggregate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	trip, err := env.trips.Create(ctx, CreateTripInput{UserID: "default_user", Title: "Japan 2025", StartDate: 1000})
	require.NoError(t, err)
	require.NoError(t, env.trips.AddCountryToTrip(ctx, trip.ID, "JP", 1000))

	visited, err := env.trips.VisitedCountries(ctx)
	require.NoError(t, err)
	require.Len(t, visited, 1)

	require.NoError(t, env.trips.Delete(ctx, trip.ID))

	visited, err = env.trips.VisitedCountries(ctx)
	require.NoError(t, err)
	assert.Empty(t, visited)
}

func TestAddCountryToTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	trip, err := env.trips.Create(ctx, CreateTripInput{UserID: "default_user", Title: "Japan 2025", StartDate: 1000})
	require.NoError(t, err)

	// Blank codes are silently ignored.
	require.NoError(t, env.trips.AddCountryToTrip(ctx, trip.ID, "", 1000))
	countries, err := env.trips.Countries(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, countries)

	// Lowercase input resolves through the lookup.
	require.NoError(t, env.trips.AddCountryToTrip(ctx, trip.ID, "jp", 1000))
	countries, err = env.trips.Countries(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "JP", countries[0].CountryCode)
	assert.Equal(t, "Japan", countries[0].CountryName)

	// An unknown code keeps the code as its display name.
	require.NoError(t, env.trips.AddCountryToTrip(ctx, trip.ID, "XX", 1000))
	countries, err = env.trips.Countries(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "XX", countries[1].CountryName)
}

func TestFindOrCreateUnclassified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.trips.FindOrCreateUnclassified(ctx, "default_user")
	require.NoError(t, err)
	assert.Equal(t, model.UnclassifiedTripTitle, first.Title)

	second, err := env.trips.FindOrCreateUnclassified(ctx, "default_user")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "the fallback trip is created once")

	other, err := env.trips.FindOrCreateUnclassified(ctx, "someone_else")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID, "one fallback trip per user")
}

func TestTripByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.trips.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrTripNotFound)
}
