package model

import "encoding/json"

const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
)

// Experience is one captured moment: a photo-centered record with
// location, weather and notes. Timestamps are unix seconds.
type Experience struct {
	ID                 string   `db:"id"`
	UserID             string   `db:"user_id"`
	TripID             *string  `db:"trip_id"`
	Timestamp          int64    `db:"timestamp"`
	Latitude           float64  `db:"latitude"`
	Longitude          float64  `db:"longitude"`
	Address            *string  `db:"address"`
	PlaceName          *string  `db:"place_name"`
	CountryCode        *string  `db:"country_code"`
	WeatherCondition   *string  `db:"weather_condition"`
	WeatherTemperature *float64 `db:"weather_temperature"`
	WeatherIcon        *string  `db:"weather_icon"`
	TextNotes          *string  `db:"text_notes"`
	TagsJSON           string   `db:"tags"`
	SyncStatus         string   `db:"sync_status"`
	CreatedAt          int64    `db:"created_at"`
	UpdatedAt          int64    `db:"updated_at"`

	// Hydrated media, partitioned by type. Not columns.
	Photos        []MediaFile `db:"-"`
	AudioMemos    []MediaFile `db:"-"`
	AmbientSounds []MediaFile `db:"-"`
}

// Tags decodes the JSON-encoded tag list. A missing or malformed
// column yields an empty list.
func (e *Experience) Tags() []string {
	if e.TagsJSON == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(e.TagsJSON), &tags); err != nil {
		return []string{}
	}
	return tags
}

// SetTags stores the tag list as JSON text, preserving order.
func (e *Experience) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		e.TagsJSON = "[]"
		return
	}
	e.TagsJSON = string(b)
}

// Country returns the country code or "" when absent.
func (e *Experience) Country() string {
	if e.CountryCode == nil {
		return ""
	}
	return *e.CountryCode
}

// AllMedia returns the hydrated media of every type.
func (e *Experience) AllMedia() []MediaFile {
	media := make([]MediaFile, 0, len(e.Photos)+len(e.AudioMemos)+len(e.AmbientSounds))
	media = append(media, e.Photos...)
	media = append(media, e.AudioMemos...)
	media = append(media, e.AmbientSounds...)
	return media
}
