package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/tabiroku/tabiroku/internal/db"
	"github.com/tabiroku/tabiroku/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

func newTestTrip(t *testing.T, repo TripRepository, userID, title string, startDate int64) *model.Trip {
	t.Helper()

	now := time.Now().Unix()
	trip := &model.Trip{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		StartDate: startDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), trip))
	return trip
}

func newTestExperience(t *testing.T, repo ExperienceRepository, tripID *string, timestamp int64, countryCode string) *model.Experience {
	t.Helper()

	now := time.Now().Unix()
	exp := &model.Experience{
		ID:         uuid.NewString(),
		UserID:     "default_user",
		TripID:     tripID,
		Timestamp:  timestamp,
		Latitude:   35.6812,
		Longitude:  139.7671,
		SyncStatus: model.SyncStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	exp.SetTags(nil)
	if countryCode != "" {
		exp.CountryCode = &countryCode
	}
	require.NoError(t, repo.Create(context.Background(), exp))
	return exp
}

func ptr[T any](v T) *T {
	return &v
}
