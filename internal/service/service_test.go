package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/tabiroku/tabiroku/internal/db"
	"github.com/tabiroku/tabiroku/internal/media"
	"github.com/tabiroku/tabiroku/internal/repository"
)

type testEnv struct {
	db          *sqlx.DB
	experiences *ExperienceService
	trips       *TripService
	media       *media.Store
	mediaRoot   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	expRepo := repository.NewExperienceRepository(database)
	tripRepo := repository.NewTripRepository(database, repository.TripCountryConflictReplace)
	visitedRepo := repository.NewVisitedCountryRepository(database)

	mediaRoot := t.TempDir()
	mediaStore := media.NewStore(mediaRoot)
	require.NoError(t, mediaStore.EnsureDirectories())

	trips := NewTripService(tripRepo, visitedRepo)
	experiences := NewExperienceService(expRepo, trips, visitedRepo, mediaStore)

	return &testEnv{
		db:          database,
		experiences: experiences,
		trips:       trips,
		media:       mediaStore,
		mediaRoot:   mediaRoot,
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "source")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
