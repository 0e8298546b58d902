package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tabiroku/tabiroku/internal/config"
	"github.com/tabiroku/tabiroku/internal/db"
	"github.com/tabiroku/tabiroku/internal/media"
	"github.com/tabiroku/tabiroku/internal/remote"
	"github.com/tabiroku/tabiroku/internal/repository"
	"github.com/tabiroku/tabiroku/internal/service"
	"github.com/tabiroku/tabiroku/internal/storage"
	"github.com/tabiroku/tabiroku/internal/sync"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	ExperienceService *service.ExperienceService
	TripService       *service.TripService
	SyncEngine        *sync.Engine
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	experienceRepository := repository.NewExperienceRepository(database)
	tripRepository := repository.NewTripRepository(database, cfg.TripCountryConflict)
	visitedCountryRepository := repository.NewVisitedCountryRepository(database)

	// Media file store
	mediaStore := media.NewStore(cfg.MediaDir)
	err = mediaStore.EnsureDirectories()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media directories: %v", err)
	}

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}
	remoteStore := remote.NewObjectStore(blobStorage)

	// Services
	tripService := service.NewTripService(tripRepository, visitedCountryRepository)
	experienceService := service.NewExperienceService(experienceRepository, tripService, visitedCountryRepository, mediaStore)

	syncEngine := sync.NewEngine(experienceService, tripService, blobStorage, remoteStore)

	return &App{
		Cfg:               cfg,
		DB:                database,
		ExperienceService: experienceService,
		TripService:       tripService,
		SyncEngine:        syncEngine,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
