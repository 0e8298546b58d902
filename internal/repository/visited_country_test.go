package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabiroku/tabiroku/internal/model"
)

func TestVisitedCountryRecompute(t *testing.T) {
	database := newTestDB(t)
	tripRepo := NewTripRepository(database, TripCountryConflictReplace)
	expRepo := NewExperienceRepository(database)
	visitedRepo := NewVisitedCountryRepository(database)
	ctx := context.Background()

	// Two trips touch Japan, one touches France.
	first := newTestTrip(t, tripRepo, "default_user", "Japan 2024", 1000)
	second := newTestTrip(t, tripRepo, "default_user", "Japan again", 5000)
	require.NoError(t, tripRepo.AddCountry(ctx, &model.TripCountry{TripID: first.ID, CountryCode: "JP", CountryName: "Japan", Continent: "Asia", FirstVisitDate: 1000}))
	require.NoError(t, tripRepo.AddCountry(ctx, &model.TripCountry{TripID: second.ID, CountryCode: "JP", CountryName: "Japan", Continent: "Asia", FirstVisitDate: 5000}))
	require.NoError(t, tripRepo.AddCountry(ctx, &model.TripCountry{TripID: second.ID, CountryCode: "FR", CountryName: "France", Continent: "Europe", FirstVisitDate: 6000}))

	// Two photos and one audio memo in Japan, nothing in France.
	exp := newTestExperience(t, expRepo, &first.ID, 1000, "JP")
	for _, fileType := range []string{model.MediaTypePhoto, model.MediaTypePhoto, model.MediaTypeAudioMemo} {
		require.NoError(t, expRepo.CreateMediaFile(ctx, &model.MediaFile{
			ID:           uuid.NewString(),
			ExperienceID: exp.ID,
			FileType:     fileType,
			FilePath:     "/media/" + uuid.NewString(),
			CreatedAt:    1000,
		}))
	}

	require.NoError(t, visitedRepo.Recompute(ctx))

	countries, err := visitedRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 2)

	// Most recently first-visited country first.
	fr := countries[0]
	assert.Equal(t, "FR", fr.CountryCode)
	assert.EqualValues(t, 6000, fr.FirstVisit)
	assert.Equal(t, 1, fr.VisitCount)
	assert.Equal(t, 0, fr.PhotoCount)

	jp := countries[1]
	assert.Equal(t, "JP", jp.CountryCode)
	assert.Equal(t, "Japan", jp.CountryName)
	assert.Equal(t, "Asia", jp.Continent)
	assert.EqualValues(t, 1000, jp.FirstVisit)
	assert.EqualValues(t, 5000, jp.LastVisit)
	assert.Equal(t, 2, jp.VisitCount)
	assert.Equal(t, 2, jp.PhotoCount, "only photos count, not audio")
}

func TestVisitedCountryRecomputeIsIdempotent(t *testing.T) {
	database := newTestDB(t)
	tripRepo := NewTripRepository(database, TripCountryConflictReplace)
	visitedRepo := NewVisitedCountryRepository(database)
	ctx := context.Background()

	trip := newTestTrip(t, tripRepo, "default_user", "Japan 2025", 1000)
	require.NoError(t, tripRepo.AddCountry(ctx, &model.TripCountry{TripID: trip.ID, CountryCode: "JP", CountryName: "Japan", Continent: "Asia", FirstVisitDate: 1000}))

	require.NoError(t, visitedRepo.Recompute(ctx))
	require.NoError(t, visitedRepo.Recompute(ctx))

	countries, err := visitedRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, 1, countries[0].VisitCount)
}

func TestVisitedCountryRecomputeClearsStaleRows(t *testing.T) {
	database := newTestDB(t)
	tripRepo := NewTripRepository(database, TripCountryConflictReplace)
	visitedRepo := NewVisitedCountryRepository(database)
	ctx := context.Background()

	trip := newTestTrip(t, tripRepo, "default_user", "Japan 2025", 1000)
	require.NoError(t, tripRepo.AddCountry(ctx, &model.TripCountry{TripID: trip.ID, CountryCode: "JP", CountryName: "Japan", Continent: "Asia", FirstVisitDate: 1000}))
	require.NoError(t, visitedRepo.Recompute(ctx))

	require.NoError(t, tripRepo.Delete(ctx, trip.ID))
	require.NoError(t, visitedRepo.Recompute(ctx))

	countries, err := visitedRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, countries, "a rebuilt aggregate must not carry deleted trips")
}
