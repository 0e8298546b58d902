package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tabiroku/tabiroku/internal/countries"
	"github.com/tabiroku/tabiroku/internal/model"
	"github.com/tabiroku/tabiroku/internal/repository"
	"github.com/tabiroku/tabiroku/internal/validation"
)

// TripService manages trip lifecycle and the trip-country association,
// keeping the visited-country aggregate consistent after every mutation.
type TripService struct {
	tripRepo    repository.TripRepository
	visitedRepo repository.VisitedCountryRepository
}

func NewTripService(tripRepo repository.TripRepository, visitedRepo repository.VisitedCountryRepository) *TripService {
	return &TripService{
		tripRepo:    tripRepo,
		visitedRepo: visitedRepo,
	}
}

// CreateTripInput carries the caller-supplied trip fields. ID is left
// empty by local callers; the sync path supplies one to preserve remote
// identity.
type CreateTripInput struct {
	ID         string
	UserID     string
	Title      string
	StartDate  int64
	EndDate    *int64
	Companions *string
	Purpose    *string
	Notes      *string
}

// Create validates and stores a new trip.
func (s *TripService) Create(ctx context.Context, in CreateTripInput) (*model.Trip, error) {
	err := validation.ValidateTripTitle(in.Title)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateTripDates(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().Unix()

	trip := &model.Trip{
		ID:         id,
		UserID:     in.UserID,
		Title:      strings.TrimSpace(in.Title),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Companions: in.Companions,
		Purpose:    in.Purpose,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.tripRepo.Create(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return trip, nil
}

func (s *TripService) List(ctx context.Context, userID string) ([]*model.Trip, error) {
	return s.tripRepo.List(ctx, userID)
}

func (s *TripService) ByID(ctx context.Context, id string) (*model.Trip, error) {
	return s.tripRepo.ByID(ctx, id)
}

// Update validates and stores edited trip fields.
func (s *TripService) Update(ctx context.Context, trip *model.Trip) error {
	err := validation.ValidateTripTitle(trip.Title)
	if err != nil {
		return err
	}
	err = validation.ValidateTripDates(trip.StartDate, trip.EndDate)
	if err != nil {
		return err
	}

	return s.tripRepo.Update(ctx, trip)
}

// Delete removes the trip. Association rows cascade away, formerly
// owned experiences become unassigned, and the visited-country
// aggregate is rebuilt afterwards.
func (s *TripService) Delete(ctx context.Context, id string) error {
	err := s.tripRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	err = s.visitedRepo.Recompute(ctx)
	if err != nil {
		return fmt.Errorf("failed to recompute visited countries: %w", err)
	}

	return nil
}

// AddCountryToTrip upserts the (trip, country) association, resolving
// the display name and continent from the static lookup, then rebuilds
// the visited-country aggregate. A blank country code is a no-op.
func (s *TripService) AddCountryToTrip(ctx context.Context, tripID, countryCode string, firstVisitDate int64) error {
	if countryCode == "" {
		return nil
	}

	code := strings.ToUpper(countryCode)
	tc := &model.TripCountry{
		TripID:         tripID,
		CountryCode:    code,
		CountryName:    countries.Name(code),
		Continent:      countries.Continent(code),
		FirstVisitDate: firstVisitDate,
	}

	err := s.tripRepo.AddCountry(ctx, tc)
	if err != nil {
		return fmt.Errorf("failed to add country to trip: %w", err)
	}

	err = s.visitedRepo.Recompute(ctx)
	if err != nil {
		return fmt.Errorf("failed to recompute visited countries: %w", err)
	}

	return nil
}

// FindOrCreateUnclassified returns the user's synthetic fallback trip,
// creating it on first use. Idempotent: subsequent calls reuse the
// existing trip.
func (s *TripService) FindOrCreateUnclassified(ctx context.Context, userID string) (*model.Trip, error) {
	trip, err := s.tripRepo.ByTitle(ctx, userID, model.UnclassifiedTripTitle)
	if err == nil {
		return trip, nil
	}
	if !errors.Is(err, repository.ErrTripNotFound) {
		return nil, err
	}

	return s.Create(ctx, CreateTripInput{
		UserID:    userID,
		Title:     model.UnclassifiedTripTitle,
		StartDate: time.Now().Unix(),
	})
}

func (s *TripService) Countries(ctx context.Context, tripID string) ([]*model.TripCountry, error) {
	return s.tripRepo.Countries(ctx, tripID)
}

// VisitedCountries lists the per-country statistics, most recently
// first-visited country first.
func (s *TripService) VisitedCountries(ctx context.Context) ([]*model.VisitedCountry, error) {
	return s.visitedRepo.List(ctx)
}
