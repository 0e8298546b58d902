// Package remote is the record side of the cloud collaborator: typed
// experience and trip rows, upserted by id and queried per user. The
// backing implementation stores each row as one JSON object on the
// shared object store.
package remote

import "context"

// MediaDescriptor describes one uploaded media file attached to a
// remote experience row.
type MediaDescriptor struct {
	ID        string `json:"id"`
	FileType  string `json:"file_type"`
	CloudPath string `json:"cloud_path"`
	CloudURL  string `json:"cloud_url"`
	FileSize  *int64 `json:"file_size,omitempty"`
	Duration  *int64 `json:"duration,omitempty"`
}

// Experience is the remote row shape for one captured moment.
type Experience struct {
	ID                 string            `json:"id"`
	UserID             string            `json:"user_id"`
	Timestamp          int64             `json:"timestamp"`
	Latitude           float64           `json:"latitude"`
	Longitude          float64           `json:"longitude"`
	Address            *string           `json:"address,omitempty"`
	PlaceName          *string           `json:"place_name,omitempty"`
	CountryCode        *string           `json:"country_code,omitempty"`
	WeatherCondition   *string           `json:"weather_condition,omitempty"`
	WeatherTemperature *float64          `json:"weather_temperature,omitempty"`
	WeatherIcon        *string           `json:"weather_icon,omitempty"`
	TextNotes          *string           `json:"text_notes,omitempty"`
	TripID             *string           `json:"trip_id,omitempty"`
	Tags               []string          `json:"tags"`
	Media              []MediaDescriptor `json:"media_files,omitempty"`
}

// Trip is the remote row shape for a trip.
type Trip struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Title      string  `json:"title"`
	StartDate  int64   `json:"start_date"`
	EndDate    *int64  `json:"end_date,omitempty"`
	Companions *string `json:"companions,omitempty"`
	Purpose    *string `json:"purpose,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// Store is the remote record store: upsert never duplicates a row,
// queries return every row for a user.
type Store interface {
	UpsertExperience(ctx context.Context, rec *Experience) error
	// Experiences returns the user's remote experience rows, newest first.
	Experiences(ctx context.Context, userID string) ([]*Experience, error)
	UpsertTrip(ctx context.Context, rec *Trip) error
	Trips(ctx context.Context, userID string) ([]*Trip, error)
}
