package model

// UnclassifiedTripTitle names the synthetic trip that holds experiences
// captured without an explicit trip assignment.
const UnclassifiedTripTitle = "Unclassified"

// Trip is a user-defined travel period grouping experiences.
// StartDate/EndDate are unix seconds; a nil EndDate means ongoing.
type Trip struct {
	ID         string  `db:"id"`
	UserID     string  `db:"user_id"`
	Title      string  `db:"title"`
	StartDate  int64   `db:"start_date"`
	EndDate    *int64  `db:"end_date"`
	Companions *string `db:"companions"`
	Purpose    *string `db:"purpose"`
	Notes      *string `db:"notes"`
	CreatedAt  int64   `db:"created_at"`
	UpdatedAt  int64   `db:"updated_at"`
}

// TripCountry records that a trip touched a country, with the earliest
// experience timestamp in that trip for that country. Keyed by
// (trip_id, country_code); owned by the trip.
type TripCountry struct {
	TripID         string `db:"trip_id"`
	CountryCode    string `db:"country_code"`
	CountryName    string `db:"country_name"`
	Continent      string `db:"continent"`
	FirstVisitDate int64  `db:"first_visit_date"`
}
