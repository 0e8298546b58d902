// Package sync reconciles the local store with the remote one: local
// records and media go up, remote records absent locally come down.
// Whichever side is new wins; conflicting edits to an existing id are
// never merged.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/tabiroku/tabiroku/internal/media"
	"github.com/tabiroku/tabiroku/internal/model"
	"github.com/tabiroku/tabiroku/internal/remote"
	"github.com/tabiroku/tabiroku/internal/repository"
	"github.com/tabiroku/tabiroku/internal/service"
	"github.com/tabiroku/tabiroku/internal/storage"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrSyncInProgress rejects a sync requested while another is running.
// There is no queueing.
var ErrSyncInProgress = errors.New("sync is already in progress")

// Listener observes status transitions with a progress message. UI
// feedback only; correctness never depends on it.
type Listener func(status Status, progress string)

// Result summarizes one sync run.
type Result struct {
	Success         bool
	UploadedCount   int
	DownloadedCount int
	Error           string
}

// Engine runs one sync at a time, guarded by an in-memory flag. That is
// enough for a single-process client: a restart mid-sync loses the flag
// but leaves no poisoned state, because every remote write is an
// idempotent upsert.
type Engine struct {
	experiences *service.ExperienceService
	trips       *service.TripService
	blobs       storage.Storage
	remote      remote.Store

	mu      sync.Mutex
	syncing bool

	listenerMu sync.Mutex
	listeners  []Listener
}

func NewEngine(
	experiences *service.ExperienceService,
	trips *service.TripService,
	blobs storage.Storage,
	remoteStore remote.Store,
) *Engine {
	return &Engine{
		experiences: experiences,
		trips:       trips,
		blobs:       blobs,
		remote:      remoteStore,
	}
}

// OnStatusChange subscribes to status transitions and returns an
// unsubscribe function.
func (e *Engine) OnStatusChange(l Listener) func() {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()

	e.listeners = append(e.listeners, l)
	index := len(e.listeners) - 1

	return func() {
		e.listenerMu.Lock()
		defer e.listenerMu.Unlock()
		e.listeners[index] = nil
	}
}

func (e *Engine) notify(status Status, progress string) {
	e.listenerMu.Lock()
	listeners := make([]Listener, len(e.listeners))
	copy(listeners, e.listeners)
	e.listenerMu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(status, progress)
		}
	}
}

func (e *Engine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.syncing {
		return ErrSyncInProgress
	}
	e.syncing = true
	return nil
}

func (e *Engine) end() {
	e.mu.Lock()
	e.syncing = false
	e.mu.Unlock()
}

// SyncAll uploads every local experience (media first, then the
// record), then downloads remote experiences that do not exist locally.
// Per-item failures are logged and skipped; a phase-level failure
// aborts the run.
func (e *Engine) SyncAll(ctx context.Context, userID string) (*Result, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	e.notify(StatusSyncing, "starting sync")
	result := &Result{}

	e.notify(StatusSyncing, "uploading local experiences")
	uploaded, err := e.uploadExperiences(ctx, userID)
	result.UploadedCount = uploaded
	if err != nil {
		result.Error = err.Error()
		e.notify(StatusError, result.Error)
		slog.Error("sync failed during upload", "error", err)
		return result, err
	}

	e.notify(StatusSyncing, "downloading remote experiences")
	downloaded, err := e.downloadExperiences(ctx, userID)
	result.DownloadedCount = downloaded
	if err != nil {
		result.Error = err.Error()
		e.notify(StatusError, result.Error)
		slog.Error("sync failed during download", "error", err)
		return result, err
	}

	result.Success = true
	e.notify(StatusSuccess, "sync completed")
	slog.Info("sync completed", "uploaded", uploaded, "downloaded", downloaded)
	return result, nil
}

func (e *Engine) uploadExperiences(ctx context.Context, userID string) (int, error) {
	experiences, err := e.experiences.List(ctx, repository.ExperienceFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list local experiences: %w", err)
	}

	count := 0
	for _, exp := range experiences {
		descriptors := e.uploadMedia(userID, exp)

		rec := buildExperienceRecord(userID, exp, descriptors)
		err = e.remote.UpsertExperience(ctx, rec)
		if err != nil {
			slog.Error("failed to upload experience", "experience", exp.ID, "error", err)
			markErr := e.experiences.MarkSyncStatus(ctx, exp.ID, model.SyncStatusError)
			if markErr != nil {
				slog.Error("failed to mark experience sync status", "experience", exp.ID, "error", markErr)
			}
			continue
		}

		err = e.experiences.MarkSyncStatus(ctx, exp.ID, model.SyncStatusSynced)
		if err != nil {
			slog.Error("failed to mark experience synced", "experience", exp.ID, "error", err)
		}
		count++
	}

	return count, nil
}

// uploadMedia pushes each of the experience's media files to the blob
// store at a deterministic per-file path. A failed upload drops that
// one descriptor, never the experience.
func (e *Engine) uploadMedia(userID string, exp *model.Experience) []remote.MediaDescriptor {
	var descriptors []remote.MediaDescriptor

	for _, m := range exp.AllMedia() {
		if isRemotePath(m.FilePath) {
			// Already cloud-hosted (synced down earlier); nothing to upload.
			descriptors = append(descriptors, remote.MediaDescriptor{
				ID:       m.ID,
				FileType: m.FileType,
				CloudURL: m.FilePath,
				FileSize: m.FileSize,
				Duration: m.Duration,
			})
			continue
		}

		f, err := os.Open(m.FilePath)
		if err != nil {
			slog.Error("failed to open media file", "path", m.FilePath, "error", err)
			continue
		}

		path := fmt.Sprintf("%s/experiences/%s/%s%s", userID, exp.ID, m.ID, media.Ext(m.FileType))
		err = e.blobs.Save(path, f)
		f.Close()
		if err != nil {
			slog.Error("failed to upload media file", "path", m.FilePath, "error", err)
			continue
		}

		descriptors = append(descriptors, remote.MediaDescriptor{
			ID:        m.ID,
			FileType:  m.FileType,
			CloudPath: path,
			CloudURL:  e.blobs.URL(path),
			FileSize:  m.FileSize,
			Duration:  m.Duration,
		})
	}

	return descriptors
}

func (e *Engine) downloadExperiences(ctx context.Context, userID string) (int, error) {
	remoteExperiences, err := e.remote.Experiences(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch remote experiences: %w", err)
	}

	count := 0
	for _, rec := range remoteExperiences {
		_, err := e.experiences.ByID(ctx, rec.ID)
		if err == nil {
			// Already present locally: new-wins, no merge.
			continue
		}
		if !errors.Is(err, repository.ErrExperienceNotFound) {
			slog.Error("failed to look up local experience", "experience", rec.ID, "error", err)
			continue
		}

		exp, err := e.createLocalExperience(ctx, userID, rec)
		if err != nil {
			slog.Error("failed to download experience", "experience", rec.ID, "error", err)
			continue
		}

		for _, d := range rec.Media {
			filePath := d.CloudURL
			if filePath == "" {
				filePath = d.CloudPath
			}
			_, err = e.experiences.CreateMediaRef(ctx, exp.ID, d.FileType, filePath, d.FileSize, d.Duration)
			if err != nil {
				slog.Error("failed to record downloaded media", "experience", rec.ID, "media", d.ID, "error", err)
			}
		}

		count++
	}

	return count, nil
}

// createLocalExperience reconstructs a remote row through the same
// create path local captures use, preserving the remote id.
func (e *Engine) createLocalExperience(ctx context.Context, userID string, rec *remote.Experience) (*model.Experience, error) {
	in := service.CreateExperienceInput{
		ID:        rec.ID,
		UserID:    userID,
		Timestamp: rec.Timestamp,
		Location: service.LocationInput{
			Latitude:    rec.Latitude,
			Longitude:   rec.Longitude,
			Address:     deref(rec.Address),
			PlaceName:   deref(rec.PlaceName),
			CountryCode: deref(rec.CountryCode),
		},
		TextNotes: deref(rec.TextNotes),
		Tags:      rec.Tags,
	}

	if rec.WeatherCondition != nil {
		weather := &service.WeatherInput{Condition: *rec.WeatherCondition}
		if rec.WeatherTemperature != nil {
			weather.Temperature = *rec.WeatherTemperature
		}
		if rec.WeatherIcon != nil {
			weather.Icon = *rec.WeatherIcon
		}
		in.Weather = weather
	}

	// Only keep the remote trip assignment when that trip exists
	// locally; otherwise the experience falls back to Unclassified and
	// a later trip sync can reassign it.
	if rec.TripID != nil {
		_, err := e.trips.ByID(ctx, *rec.TripID)
		if err == nil {
			in.TripID = rec.TripID
		} else if !errors.Is(err, repository.ErrTripNotFound) {
			return nil, err
		}
	}

	return e.experiences.Create(ctx, in)
}

// SyncTrips uploads every local trip, then downloads remote trips
// absent locally. Same single-flight guard and same per-item failure
// tolerance as SyncAll.
func (e *Engine) SyncTrips(ctx context.Context, userID string) (*Result, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	e.notify(StatusSyncing, "syncing trips")
	result := &Result{}

	localTrips, err := e.trips.List(ctx, userID)
	if err != nil {
		result.Error = err.Error()
		e.notify(StatusError, result.Error)
		return result, fmt.Errorf("failed to list local trips: %w", err)
	}

	local := make(map[string]struct{}, len(localTrips))
	for _, trip := range localTrips {
		local[trip.ID] = struct{}{}

		err = e.remote.UpsertTrip(ctx, buildTripRecord(userID, trip))
		if err != nil {
			slog.Error("failed to upload trip", "trip", trip.ID, "error", err)
			continue
		}
		result.UploadedCount++
	}

	remoteTrips, err := e.remote.Trips(ctx, userID)
	if err != nil {
		result.Error = err.Error()
		e.notify(StatusError, result.Error)
		return result, fmt.Errorf("failed to fetch remote trips: %w", err)
	}

	for _, rec := range remoteTrips {
		if _, ok := local[rec.ID]; ok {
			continue
		}

		_, err = e.trips.Create(ctx, service.CreateTripInput{
			ID:         rec.ID,
			UserID:     userID,
			Title:      rec.Title,
			StartDate:  rec.StartDate,
			EndDate:    rec.EndDate,
			Companions: rec.Companions,
			Purpose:    rec.Purpose,
			Notes:      rec.Notes,
		})
		if err != nil {
			slog.Error("failed to download trip", "trip", rec.ID, "error", err)
			continue
		}
		result.DownloadedCount++
	}

	result.Success = true
	e.notify(StatusSuccess, "trip sync completed")
	return result, nil
}

func buildExperienceRecord(userID string, exp *model.Experience, descriptors []remote.MediaDescriptor) *remote.Experience {
	return &remote.Experience{
		ID:                 exp.ID,
		UserID:             userID,
		Timestamp:          exp.Timestamp,
		Latitude:           exp.Latitude,
		Longitude:          exp.Longitude,
		Address:            exp.Address,
		PlaceName:          exp.PlaceName,
		CountryCode:        exp.CountryCode,
		WeatherCondition:   exp.WeatherCondition,
		WeatherTemperature: exp.WeatherTemperature,
		WeatherIcon:        exp.WeatherIcon,
		TextNotes:          exp.TextNotes,
		TripID:             exp.TripID,
		Tags:               exp.Tags(),
		Media:              descriptors,
	}
}

func buildTripRecord(userID string, trip *model.Trip) *remote.Trip {
	return &remote.Trip{
		ID:         trip.ID,
		UserID:     userID,
		Title:      trip.Title,
		StartDate:  trip.StartDate,
		EndDate:    trip.EndDate,
		Companions: trip.Companions,
		Purpose:    trip.Purpose,
		Notes:      trip.Notes,
	}
}

func isRemotePath(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
