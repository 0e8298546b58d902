package migrations

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/tabiroku/tabiroku/internal/countries"
	"github.com/tabiroku/tabiroku/internal/model"
)

func init() {
	goose.AddMigrationContext(upTrips, downTrips)
}

// Introduces trips and the trip-country association, then adopts any
// pre-existing experiences into a single synthetic "Unclassified" trip
// so that every row has an owner going forward.
func upTrips(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY NOT NULL,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			start_date INTEGER NOT NULL,
			end_date INTEGER,
			companions TEXT,
			purpose TEXT,
			notes TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS trip_countries (
			trip_id TEXT NOT NULL,
			country_code TEXT NOT NULL,
			country_name TEXT NOT NULL,
			continent TEXT,
			first_visit_date INTEGER NOT NULL,
			PRIMARY KEY (trip_id, country_code),
			FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
		)`)
	if err != nil {
		return err
	}

	// Tolerate the column already existing: dev builds shipped it ahead
	// of the version bump.
	_, err = tx.ExecContext(ctx,
		`ALTER TABLE experiences ADD COLUMN trip_id TEXT REFERENCES trips(id) ON DELETE SET NULL`)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
		return err
	}

	// Adopt orphaned experiences into one synthetic trip starting at
	// their earliest capture.
	var orphans int
	var minTimestamp sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(timestamp) FROM experiences WHERE trip_id IS NULL`).
		Scan(&orphans, &minTimestamp)
	if err != nil {
		return err
	}
	if orphans == 0 {
		return nil
	}

	var userID string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM experiences WHERE trip_id IS NULL LIMIT 1`).Scan(&userID)
	if err != nil {
		return err
	}

	tripID := uuid.NewString()
	now := time.Now().Unix()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO trips (id, user_id, title, start_date, end_date, companions, purpose, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULL, NULL, NULL, NULL, $5, $6)`,
		tripID, userID, model.UnclassifiedTripTitle, minTimestamp.Int64, now, now,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE experiences SET trip_id = $1 WHERE trip_id IS NULL`, tripID)
	if err != nil {
		return err
	}

	// Derive the trip's countries from the adopted experiences: one row
	// per distinct country code, first visit = earliest capture there.
	rows, err := tx.QueryContext(ctx, `
		SELECT country_code, MIN(timestamp)
		FROM experiences
		WHERE trip_id = $1 AND country_code IS NOT NULL AND country_code <> ''
		GROUP BY country_code`, tripID)
	if err != nil {
		return err
	}
	defer rows.Close()

	type visit struct {
		code  string
		first int64
	}
	var visits []visit
	for rows.Next() {
		var v visit
		if err := rows.Scan(&v.code, &v.first); err != nil {
			return err
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, v := range visits {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trip_countries (trip_id, country_code, country_name, continent, first_visit_date)
			VALUES ($1, $2, $3, $4, $5)`,
			tripID, v.code, countries.Name(v.code), countries.Continent(v.code), v.first,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func downTrips(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS trip_countries`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS trips`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `ALTER TABLE experiences DROP COLUMN trip_id`)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "no such column") {
		return err
	}
	return nil
}
