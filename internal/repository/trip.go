package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tabiroku/tabiroku/internal/model"
)

const (
	// TripCountryConflictReplace overwrites first_visit_date on a repeat
	// upsert of the same (trip, country) pair: last write wins.
	TripCountryConflictReplace = "replace"
	// TripCountryConflictEarliest keeps the minimum first_visit_date
	// across upserts.
	TripCountryConflictEarliest = "earliest"
)

var (
	ErrTripNotFound = errors.New("trip not found")
)

type TripRepository interface {
	Create(ctx context.Context, trip *model.Trip) error
	List(ctx context.Context, userID string) ([]*model.Trip, error)
	ByID(ctx context.Context, id string) (*model.Trip, error)
	ByTitle(ctx context.Context, userID, title string) (*model.Trip, error)
	Update(ctx context.Context, trip *model.Trip) error
	Delete(ctx context.Context, id string) error
	AddCountry(ctx context.Context, tc *model.TripCountry) error
	Countries(ctx context.Context, tripID string) ([]*model.TripCountry, error)
}

type tripRepository struct {
	db       *sqlx.DB
	conflict string
}

// NewTripRepository builds a trip repository. conflict selects the
// trip-country upsert behavior; an unknown value falls back to replace.
func NewTripRepository(db *sqlx.DB, conflict string) TripRepository {
	if conflict != TripCountryConflictEarliest {
		conflict = TripCountryConflictReplace
	}
	return &tripRepository{db: db, conflict: conflict}
}

func (r *tripRepository) Create(ctx context.Context, trip *model.Trip) error {
	query := `INSERT INTO trips (id, user_id, title, start_date, end_date, companions, purpose, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		trip.ID,
		trip.UserID,
		trip.Title,
		trip.StartDate,
		trip.EndDate,
		trip.Companions,
		trip.Purpose,
		trip.Notes,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	return err
}

func (r *tripRepository) List(ctx context.Context, userID string) ([]*model.Trip, error) {
	var trips []*model.Trip
	query := `SELECT * FROM trips WHERE user_id = $1 ORDER BY start_date DESC`

	err := r.db.SelectContext(ctx, &trips, query, userID)
	if err != nil {
		return nil, err
	}

	return trips, nil
}

func (r *tripRepository) ByID(ctx context.Context, id string) (*model.Trip, error) {
	trip := &model.Trip{}
	query := `SELECT * FROM trips WHERE id = $1`

	err := r.db.GetContext(ctx, trip, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrTripNotFound
	}

	return trip, err
}

func (r *tripRepository) ByTitle(ctx context.Context, userID, title string) (*model.Trip, error) {
	trip := &model.Trip{}
	query := `SELECT * FROM trips WHERE user_id = $1 AND title = $2 LIMIT 1`

	err := r.db.GetContext(ctx, trip, query, userID, title)
	if err == sql.ErrNoRows {
		return nil, ErrTripNotFound
	}

	return trip, err
}

func (r *tripRepository) Update(ctx context.Context, trip *model.Trip) error {
	query := `UPDATE trips
	          SET title = $1, start_date = $2, end_date = $3, companions = $4, purpose = $5, notes = $6, updated_at = $7
	          WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		trip.Title,
		trip.StartDate,
		trip.EndDate,
		trip.Companions,
		trip.Purpose,
		trip.Notes,
		time.Now().Unix(),
		trip.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Delete removes the trip. Its trip_countries rows cascade-delete and
// owned experiences get trip_id set to NULL by the schema's foreign key.
func (r *tripRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trips WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTripNotFound
	}

	return nil
}

// AddCountry upserts the (trip, country) association. The pair is never
// duplicated; what happens to first_visit_date on a repeat upsert is the
// configured conflict behavior.
func (r *tripRepository) AddCountry(ctx context.Context, tc *model.TripCountry) error {
	query := `INSERT INTO trip_countries (trip_id, country_code, country_name, continent, first_visit_date)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (trip_id, country_code) DO UPDATE SET
	            country_name = excluded.country_name,
	            continent = excluded.continent,
	            first_visit_date = excluded.first_visit_date`

	if r.conflict == TripCountryConflictEarliest {
		query = `INSERT INTO trip_countries (trip_id, country_code, country_name, continent, first_visit_date)
		         VALUES ($1, $2, $3, $4, $5)
		         ON CONFLICT (trip_id, country_code) DO UPDATE SET
		           country_name = excluded.country_name,
		           continent = excluded.continent,
		           first_visit_date = min(trip_countries.first_visit_date, excluded.first_visit_date)`
	}

	_, err := r.db.ExecContext(ctx, query,
		tc.TripID,
		tc.CountryCode,
		tc.CountryName,
		tc.Continent,
		tc.FirstVisitDate,
	)

	return err
}

func (r *tripRepository) Countries(ctx context.Context, tripID string) ([]*model.TripCountry, error) {
	var tcs []*model.TripCountry
	query := `SELECT * FROM trip_countries WHERE trip_id = $1 ORDER BY first_visit_date ASC`

	err := r.db.SelectContext(ctx, &tcs, query, tripID)
	if err != nil {
		return nil, err
	}

	return tcs, nil
}
