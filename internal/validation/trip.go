package validation

import (
	"errors"
	"strings"
)

// ValidateTripTitle validates a trip title at the edit boundary.
// Storage does not enforce this.
func ValidateTripTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("trip title is required")
	}

	if len(trimmed) > 200 {
		return errors.New("trip title is too long (max 200 characters)")
	}

	return nil
}

// ValidateTripDates checks that the end date, when present, is not
// before the start date. Dates are unix seconds; a nil end date means
// the trip is ongoing.
func ValidateTripDates(startDate int64, endDate *int64) error {
	if endDate != nil && *endDate < startDate {
		return errors.New("trip end date must not be before its start date")
	}

	return nil
}
