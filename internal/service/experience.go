package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tabiroku/tabiroku/internal/media"
	"github.com/tabiroku/tabiroku/internal/model"
	"github.com/tabiroku/tabiroku/internal/repository"
	"github.com/tabiroku/tabiroku/internal/validation"
)

// ExperienceService is the authoritative surface for captured moments:
// it generates identity, resolves the owning trip, places media files
// and keeps the derived country statistics fresh.
type ExperienceService struct {
	expRepo     repository.ExperienceRepository
	trips       *TripService
	visitedRepo repository.VisitedCountryRepository
	media       *media.Store
}

func NewExperienceService(
	expRepo repository.ExperienceRepository,
	trips *TripService,
	visitedRepo repository.VisitedCountryRepository,
	mediaStore *media.Store,
) *ExperienceService {
	return &ExperienceService{
		expRepo:     expRepo,
		trips:       trips,
		visitedRepo: visitedRepo,
		media:       mediaStore,
	}
}

// LocationInput is what the capture collaborator hands us. Coordinates
// are required; the rest may be blank.
type LocationInput struct {
	Latitude    float64
	Longitude   float64
	Address     string
	PlaceName   string
	CountryCode string
}

// WeatherInput is the optional weather triple at capture time.
type WeatherInput struct {
	Condition   string
	Temperature float64
	Icon        string
}

// CreateExperienceInput carries the caller-supplied fields. ID is left
// empty by local captures; the sync path supplies one to preserve
// remote identity. A zero Timestamp defaults to now.
type CreateExperienceInput struct {
	ID        string
	UserID    string
	TripID    *string
	Timestamp int64
	Location  LocationInput
	Weather   *WeatherInput
	TextNotes string
	Tags      []string
}

// Create stores a new experience. Without an explicit trip the
// experience is attached to the user's "Unclassified" trip, created on
// first use. A present country code also registers the country on the
// owning trip.
func (s *ExperienceService) Create(ctx context.Context, in CreateExperienceInput) (*model.Experience, error) {
	err := validation.ValidateCoordinates(in.Location.Latitude, in.Location.Longitude)
	if err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().Unix()
	timestamp := in.Timestamp
	if timestamp == 0 {
		timestamp = now
	}

	tripID := in.TripID
	if tripID == nil {
		trip, err := s.trips.FindOrCreateUnclassified(ctx, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve fallback trip: %w", err)
		}
		tripID = &trip.ID
	}

	exp := &model.Experience{
		ID:          id,
		UserID:      in.UserID,
		TripID:      tripID,
		Timestamp:   timestamp,
		Latitude:    in.Location.Latitude,
		Longitude:   in.Location.Longitude,
		Address:     optional(in.Location.Address),
		PlaceName:   optional(in.Location.PlaceName),
		CountryCode: optional(strings.ToUpper(in.Location.CountryCode)),
		TextNotes:   optional(in.TextNotes),
		SyncStatus:  model.SyncStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	exp.SetTags(in.Tags)
	if in.Weather != nil {
		exp.WeatherCondition = optional(in.Weather.Condition)
		exp.WeatherTemperature = &in.Weather.Temperature
		exp.WeatherIcon = optional(in.Weather.Icon)
	}

	err = s.expRepo.Create(ctx, exp)
	if err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}

	if exp.Country() != "" {
		err = s.trips.AddCountryToTrip(ctx, *tripID, exp.Country(), timestamp)
		if err != nil {
			return nil, err
		}
	}

	return exp, nil
}

// AttachPhoto copies the captured photo into the media store and
// records it. The file write and the row insert are not one
// transaction: a failed insert deletes the just-written file, and the
// startup sweep catches anything a crash leaves behind.
func (s *ExperienceService) AttachPhoto(ctx context.Context, experienceID, sourceURI string) (*model.MediaFile, error) {
	path, err := s.media.SavePhoto(experienceID, sourceURI)
	if err != nil {
		return nil, err
	}

	return s.recordMedia(ctx, experienceID, model.MediaTypePhoto, path, nil)
}

// AttachAudio moves the recorded audio into the media store and records
// it. fileType selects the audio memo or ambient sound category.
func (s *ExperienceService) AttachAudio(ctx context.Context, experienceID, sourceURI, fileType string, duration *int64) (*model.MediaFile, error) {
	path, err := s.media.SaveAudio(experienceID, sourceURI, fileType)
	if err != nil {
		return nil, err
	}

	return s.recordMedia(ctx, experienceID, fileType, path, duration)
}

func (s *ExperienceService) recordMedia(ctx context.Context, experienceID, fileType, path string, duration *int64) (*model.MediaFile, error) {
	m := &model.MediaFile{
		ID:           uuid.NewString(),
		ExperienceID: experienceID,
		FileType:     fileType,
		FilePath:     path,
		Duration:     duration,
		CreatedAt:    time.Now().Unix(),
	}
	size, err := s.media.FileInfo(path)
	if err == nil {
		m.FileSize = &size
	}

	err = s.expRepo.CreateMediaFile(ctx, m)
	if err != nil {
		// Compensate: don't leave an orphaned file behind.
		removeErr := s.media.Remove(path)
		if removeErr != nil {
			slog.Error("failed to remove media file during cleanup", "path", path, "error", removeErr)
		}
		return nil, fmt.Errorf("failed to create media file record: %w", err)
	}

	if fileType == model.MediaTypePhoto {
		err = s.visitedRepo.Recompute(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to recompute visited countries: %w", err)
		}
	}

	return m, nil
}

// CreateMediaRef records a media row whose bytes live elsewhere (a
// cloud URL from a synced-down experience). No file is written locally.
func (s *ExperienceService) CreateMediaRef(ctx context.Context, experienceID, fileType, filePath string, fileSize, duration *int64) (*model.MediaFile, error) {
	m := &model.MediaFile{
		ID:           uuid.NewString(),
		ExperienceID: experienceID,
		FileType:     fileType,
		FilePath:     filePath,
		FileSize:     fileSize,
		Duration:     duration,
		CreatedAt:    time.Now().Unix(),
	}

	err := s.expRepo.CreateMediaFile(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create media file record: %w", err)
	}

	if fileType == model.MediaTypePhoto {
		err = s.visitedRepo.Recompute(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to recompute visited countries: %w", err)
		}
	}

	return m, nil
}

func (s *ExperienceService) List(ctx context.Context, filter repository.ExperienceFilter) ([]*model.Experience, error) {
	return s.expRepo.List(ctx, filter)
}

func (s *ExperienceService) ByID(ctx context.Context, id string) (*model.Experience, error) {
	return s.expRepo.ByID(ctx, id)
}

func (s *ExperienceService) ByTrip(ctx context.Context, tripID string) ([]*model.Experience, error) {
	return s.expRepo.ByTrip(ctx, tripID)
}

// Delete removes the experience row (media rows cascade with it), then
// cleans up its files on disk and rebuilds the photo statistics.
func (s *ExperienceService) Delete(ctx context.Context, id string) error {
	err := s.expRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	err = s.media.DeleteExperienceFiles(id)
	if err != nil {
		// The row is gone; the sweep will catch leftover files.
		slog.Error("failed to delete experience media files", "experience", id, "error", err)
	}

	err = s.visitedRepo.Recompute(ctx)
	if err != nil {
		return fmt.Errorf("failed to recompute visited countries: %w", err)
	}

	return nil
}

// AssignToTrip moves the experience to another trip and registers the
// experience's country on it.
func (s *ExperienceService) AssignToTrip(ctx context.Context, experienceID, tripID string) error {
	exp, err := s.expRepo.ByID(ctx, experienceID)
	if err != nil {
		return err
	}

	err = s.expRepo.AssignToTrip(ctx, experienceID, tripID)
	if err != nil {
		return err
	}

	if exp.Country() != "" {
		return s.trips.AddCountryToTrip(ctx, tripID, exp.Country(), exp.Timestamp)
	}

	return nil
}

// MarkSyncStatus advances an experience's sync status. Only the sync
// engine calls this.
func (s *ExperienceService) MarkSyncStatus(ctx context.Context, id, status string) error {
	return s.expRepo.UpdateSyncStatus(ctx, id, status)
}

// SweepOrphanFiles reconciles the media directory against the store,
// removing per-experience directories that no media row references.
func (s *ExperienceService) SweepOrphanFiles(ctx context.Context) (int, error) {
	paths, err := s.expRepo.MediaPaths(ctx)
	if err != nil {
		return 0, err
	}

	return s.media.Sweep(paths)
}

// optional maps the empty string to a NULL column value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
