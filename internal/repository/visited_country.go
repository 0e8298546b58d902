package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tabiroku/tabiroku/internal/model"
)

type VisitedCountryRepository interface {
	Recompute(ctx context.Context) error
	List(ctx context.Context) ([]*model.VisitedCountry, error)
}

type visitedCountryRepository struct {
	db *sqlx.DB
}

func NewVisitedCountryRepository(db *sqlx.DB) VisitedCountryRepository {
	return &visitedCountryRepository{db: db}
}

// Recompute drops and rebuilds the whole visited_countries table from
// trip_countries, experiences and media_files. visit_count is the
// number of trips touching the country, first/last visit the min/max of
// each trip's first visit date, photo_count the photos owned by
// experiences with that country code. Full rebuild, not incremental:
// the table never exceeds a few hundred rows.
func (r *visitedCountryRepository) Recompute(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM visited_countries`)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO visited_countries (country_code, country_name, continent, first_visit, last_visit, visit_count, photo_count, created_at, updated_at)
		SELECT
			tc.country_code,
			MAX(tc.country_name),
			COALESCE(MAX(tc.continent), ''),
			MIN(tc.first_visit_date),
			MAX(tc.first_visit_date),
			COUNT(*),
			(SELECT COUNT(*)
			   FROM media_files mf
			   JOIN experiences e ON e.id = mf.experience_id
			  WHERE mf.file_type = $1 AND e.country_code = tc.country_code),
			$2, $3
		FROM trip_countries tc
		GROUP BY tc.country_code`,
		model.MediaTypePhoto, now, now,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *visitedCountryRepository) List(ctx context.Context) ([]*model.VisitedCountry, error) {
	var countries []*model.VisitedCountry
	query := `SELECT * FROM visited_countries ORDER BY first_visit DESC`

	err := r.db.SelectContext(ctx, &countries, query)
	if err != nil {
		return nil, err
	}

	return countries, nil
}
