package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/tabiroku/tabiroku/internal/countries"
)

func init() {
	goose.AddMigrationContext(upVisitedCountryMetadata, downVisitedCountryMetadata)
}

// Earlier builds stored whatever place name the capture reported in
// country_name and left continent empty. Backfill both columns from the
// static country lookup.
func upVisitedCountryMetadata(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `SELECT country_code FROM visited_countries`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return err
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, code := range codes {
		_, err := tx.ExecContext(ctx,
			`UPDATE visited_countries SET country_name = $1, continent = $2 WHERE country_code = $3`,
			countries.Name(code), countries.Continent(code), code,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// The backfill overwrites the legacy values; there is nothing to
// restore on rollback.
func downVisitedCountryMetadata(ctx context.Context, tx *sql.Tx) error {
	return nil
}
