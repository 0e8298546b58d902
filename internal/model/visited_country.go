package model

// VisitedCountry is a fully-derived aggregate, one row per country
// across all trips. It is never written directly: the aggregator drops
// and rebuilds the whole table from trip_countries, experiences and
// media_files.
type VisitedCountry struct {
	CountryCode string `db:"country_code"`
	CountryName string `db:"country_name"`
	Continent   string `db:"continent"`
	FirstVisit  int64  `db:"first_visit"`
	LastVisit   int64  `db:"last_visit"`
	VisitCount  int    `db:"visit_count"`
	PhotoCount  int    `db:"photo_count"`
	CreatedAt   int64  `db:"created_at"`
	UpdatedAt   int64  `db:"updated_at"`
}
