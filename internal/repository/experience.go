package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tabiroku/tabiroku/internal/model"
)

var (
	ErrExperienceNotFound = errors.New("experience not found")
)

// ExperienceFilter narrows List results. All fields are optional and
// AND-combined. Dates are unix seconds, inclusive.
type ExperienceFilter struct {
	StartDate   *int64
	EndDate     *int64
	CountryCode string
}

type ExperienceRepository interface {
	Create(ctx context.Context, exp *model.Experience) error
	CreateMediaFile(ctx context.Context, media *model.MediaFile) error
	ByID(ctx context.Context, id string) (*model.Experience, error)
	List(ctx context.Context, filter ExperienceFilter) ([]*model.Experience, error)
	ByTrip(ctx context.Context, tripID string) ([]*model.Experience, error)
	Delete(ctx context.Context, id string) error
	AssignToTrip(ctx context.Context, experienceID, tripID string) error
	UpdateSyncStatus(ctx context.Context, id, status string) error
	MediaPaths(ctx context.Context) ([]string, error)
}

type experienceRepository struct {
	db *sqlx.DB
}

func NewExperienceRepository(db *sqlx.DB) ExperienceRepository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) Create(ctx context.Context, exp *model.Experience) error {
	query := `INSERT INTO experiences (
	            id, user_id, trip_id, timestamp, latitude, longitude,
	            address, place_name, country_code,
	            weather_condition, weather_temperature, weather_icon,
	            text_notes, tags, sync_status, created_at, updated_at
	          ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.ExecContext(ctx, query,
		exp.ID,
		exp.UserID,
		exp.TripID,
		exp.Timestamp,
		exp.Latitude,
		exp.Longitude,
		exp.Address,
		exp.PlaceName,
		exp.CountryCode,
		exp.WeatherCondition,
		exp.WeatherTemperature,
		exp.WeatherIcon,
		exp.TextNotes,
		exp.TagsJSON,
		exp.SyncStatus,
		exp.CreatedAt,
		exp.UpdatedAt,
	)

	return err
}

func (r *experienceRepository) CreateMediaFile(ctx context.Context, media *model.MediaFile) error {
	query := `INSERT INTO media_files (id, experience_id, file_type, file_path, file_size, duration, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		media.ID,
		media.ExperienceID,
		media.FileType,
		media.FilePath,
		media.FileSize,
		media.Duration,
		media.CreatedAt,
	)

	return err
}

func (r *experienceRepository) ByID(ctx context.Context, id string) (*model.Experience, error) {
	exp := &model.Experience{}
	query := `SELECT * FROM experiences WHERE id = $1`

	err := r.db.GetContext(ctx, exp, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrExperienceNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.hydrateMedia(ctx, exp)
	if err != nil {
		return nil, err
	}

	return exp, nil
}

func (r *experienceRepository) List(ctx context.Context, filter ExperienceFilter) ([]*model.Experience, error) {
	query := `SELECT * FROM experiences WHERE 1=1`
	var args []any

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += ` AND timestamp >= $` + strconv.Itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += ` AND timestamp <= $` + strconv.Itoa(len(args))
	}
	if filter.CountryCode != "" {
		args = append(args, filter.CountryCode)
		query += ` AND country_code = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY timestamp DESC`

	var experiences []*model.Experience
	err := r.db.SelectContext(ctx, &experiences, query, args...)
	if err != nil {
		return nil, err
	}

	for _, exp := range experiences {
		err = r.hydrateMedia(ctx, exp)
		if err != nil {
			return nil, err
		}
	}

	return experiences, nil
}

func (r *experienceRepository) ByTrip(ctx context.Context, tripID string) ([]*model.Experience, error) {
	var experiences []*model.Experience
	query := `SELECT * FROM experiences WHERE trip_id = $1 ORDER BY timestamp DESC`

	err := r.db.SelectContext(ctx, &experiences, query, tripID)
	if err != nil {
		return nil, err
	}

	for _, exp := range experiences {
		err = r.hydrateMedia(ctx, exp)
		if err != nil {
			return nil, err
		}
	}

	return experiences, nil
}

// hydrateMedia attaches the experience's media rows, partitioned by type.
func (r *experienceRepository) hydrateMedia(ctx context.Context, exp *model.Experience) error {
	var media []model.MediaFile
	query := `SELECT * FROM media_files WHERE experience_id = $1 ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &media, query, exp.ID)
	if err != nil {
		return err
	}

	exp.Photos = nil
	exp.AudioMemos = nil
	exp.AmbientSounds = nil
	for _, m := range media {
		switch m.FileType {
		case model.MediaTypePhoto:
			exp.Photos = append(exp.Photos, m)
		case model.MediaTypeAudioMemo:
			exp.AudioMemos = append(exp.AudioMemos, m)
		case model.MediaTypeAmbientSound:
			exp.AmbientSounds = append(exp.AmbientSounds, m)
		}
	}

	return nil
}

// Delete removes the experience row. Media rows cascade-delete with it;
// physical file cleanup is the caller's responsibility.
func (r *experienceRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM experiences WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrExperienceNotFound
	}

	return nil
}

func (r *experienceRepository) AssignToTrip(ctx context.Context, experienceID, tripID string) error {
	query := `UPDATE experiences SET trip_id = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, tripID, time.Now().Unix(), experienceID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrExperienceNotFound
	}

	return nil
}

func (r *experienceRepository) UpdateSyncStatus(ctx context.Context, id, status string) error {
	query := `UPDATE experiences SET sync_status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().Unix(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrExperienceNotFound
	}

	return nil
}

// MediaPaths returns every stored media file path. Used by the startup
// orphan sweep to diff the media directory against the store.
func (r *experienceRepository) MediaPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.SelectContext(ctx, &paths, `SELECT file_path FROM media_files`)
	if err != nil {
		return nil, err
	}
	return paths, nil
}
