package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tabiroku/tabiroku/internal/storage"
)

// objectStore keeps one JSON object per row under a per-user prefix:
//
//	rows/{userID}/experiences/{id}.json
//	rows/{userID}/trips/{id}.json
//
// Put is upsert by construction: writing the same key again replaces
// the row without duplicating it.
type objectStore struct {
	blobs storage.Storage
}

// NewObjectStore builds a record store on top of an object store.
func NewObjectStore(blobs storage.Storage) Store {
	return &objectStore{blobs: blobs}
}

func experienceKey(userID, id string) string {
	return fmt.Sprintf("rows/%s/experiences/%s.json", userID, id)
}

func tripKey(userID, id string) string {
	return fmt.Sprintf("rows/%s/trips/%s.json", userID, id)
}

func (s *objectStore) put(key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	err = s.blobs.Save(key, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}

	return nil
}

func (s *objectStore) UpsertExperience(ctx context.Context, rec *Experience) error {
	return s.put(experienceKey(rec.UserID, rec.ID), rec)
}

func (s *objectStore) Experiences(ctx context.Context, userID string) ([]*Experience, error) {
	keys, err := s.blobs.List(fmt.Sprintf("rows/%s/experiences/", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list remote experiences: %w", err)
	}

	experiences := make([]*Experience, 0, len(keys))
	for _, key := range keys {
		data, err := s.blobs.Load(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load remote experience %s: %w", key, err)
		}

		rec := &Experience{}
		err = json.Unmarshal(data, rec)
		if err != nil {
			// A malformed row should not wedge the whole download.
			slog.Warn("skipping malformed remote experience", "key", key, "error", err)
			continue
		}
		experiences = append(experiences, rec)
	}

	sort.Slice(experiences, func(i, j int) bool {
		return experiences[i].Timestamp > experiences[j].Timestamp
	})

	return experiences, nil
}

func (s *objectStore) UpsertTrip(ctx context.Context, rec *Trip) error {
	return s.put(tripKey(rec.UserID, rec.ID), rec)
}

func (s *objectStore) Trips(ctx context.Context, userID string) ([]*Trip, error) {
	keys, err := s.blobs.List(fmt.Sprintf("rows/%s/trips/", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list remote trips: %w", err)
	}

	trips := make([]*Trip, 0, len(keys))
	for _, key := range keys {
		data, err := s.blobs.Load(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load remote trip %s: %w", key, err)
		}

		rec := &Trip{}
		err = json.Unmarshal(data, rec)
		if err != nil {
			slog.Warn("skipping malformed remote trip", "key", key, "error", err)
			continue
		}
		trips = append(trips, rec)
	}

	sort.Slice(trips, func(i, j int) bool {
		return trips[i].StartDate > trips[j].StartDate
	})

	return trips, nil
}
