package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rafaelmaranon/Availo/common/logger"
	"github.com/rafaelmaranon/Availo/internal/models"
	"github.com/rafaelmaranon/Availo/internal/store"
)

// Seeder resets the store to a known demo state: a handful of offered spots
// around San Francisco with staggered leave times, plus two seekers headed
// for some of them.
type Seeder struct {
	repo store.Repository
}

func NewSeeder(repo store.Repository) *Seeder {
	return &Seeder{repo: repo}
}

// Result reports what a seeding run created.
type Result struct {
	Seekers  int `json:"seekers"`
	Offerers int `json:"offerers"`
}

func ptr(v float64) *float64 { return &v }

// Run clears all existing records and inserts the demo set.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	if err := s.clear(ctx); err != nil {
		return Result{}, err
	}

	now := time.Now().UnixMilli()

	offerings := []models.OfferingRequest{
		{
			DriverName:          "Alex",
			LocationDescription: "Mission & 16th Street",
			CarBrand:            "Honda Civic",
			CarColor:            "Blue",
			EstimatedLeaveTime:  "leaving in 5 minutes, near the coffee shop",
			ExactLocationKnown:  true,
			Lat:                 ptr(37.7649),
			Lng:                 ptr(-122.4194),
			Status:              models.OfferingStatusReady,
			CreatedAt:           now,
		},
		{
			DriverName:          "Maria",
			LocationDescription: "Dolores Park entrance",
			CarBrand:            "Toyota Prius",
			CarColor:            "White",
			EstimatedLeaveTime:  "leaving in 15 minutes, by the playground",
			ExactLocationKnown:  true,
			Lat:                 ptr(37.7596),
			Lng:                 ptr(-122.4269),
			Status:              models.OfferingStatusReady,
			CreatedAt:           now,
		},
		{
			DriverName:          "Sam",
			LocationDescription: "Valencia & 24th",
			CarBrand:            "Tesla Model 3",
			CarColor:            "Red",
			EstimatedLeaveTime:  "leaving in 25 minutes",
			ExactLocationKnown:  true,
			Lat:                 ptr(37.7524),
			Lng:                 ptr(-122.4211),
			Status:              models.OfferingStatusPreparing,
			CreatedAt:           now,
		},
		{
			DriverName:          "Priya",
			LocationDescription: "Castro & Market",
			CarBrand:            "BMW",
			CarColor:            "Black",
			EstimatedLeaveTime:  "leaving in 35 minutes, corner spot",
			ExactLocationKnown:  true,
			Lat:                 ptr(37.7609),
			Lng:                 ptr(-122.4350),
			Status:              models.OfferingStatusPreparing,
			CreatedAt:           now,
		},
		{
			DriverName:          "Jordan",
			LocationDescription: "Lombard Street",
			CarBrand:            "Subaru",
			CarColor:            "Silver",
			EstimatedLeaveTime:  "leaving in 45 minutes, near tourist area",
			ExactLocationKnown:  false,
			Lat:                 ptr(37.8019),
			Lng:                 ptr(-122.4187),
			Status:              models.OfferingStatusPreparing,
			CreatedAt:           now,
		},
	}

	seekings := []models.SeekingRequest{
		{
			DriverName:            "Dana",
			Destination:           "Mission district, near 16th",
			ArrivalTimeEstimate:   "arriving in 6 minutes",
			ParkingDurationNeeded: "2 hours",
			Status:                models.SeekingStatusSeeking,
			Lat:                   ptr(37.7650),
			Lng:                   ptr(-122.4180),
			CreatedAt:             now,
		},
		{
			DriverName:            "Luis",
			Destination:           "Dolores Park",
			ArrivalTimeEstimate:   "arriving in 20 minutes",
			ParkingDurationNeeded: "an hour or so",
			Status:                models.SeekingStatusSeeking,
			Lat:                   ptr(37.7590),
			Lng:                   ptr(-122.4270),
			CreatedAt:             now,
		},
	}

	var res Result
	for _, o := range offerings {
		if _, err := s.repo.InsertOffering(ctx, o); err != nil {
			return res, fmt.Errorf("failed to seed offering: %w", err)
		}
		res.Offerers++
	}
	for _, sk := range seekings {
		if _, err := s.repo.InsertSeeking(ctx, sk); err != nil {
			return res, fmt.Errorf("failed to seed seeker: %w", err)
		}
		res.Seekers++
	}

	logger.Info("Demo data seeded",
		"seekers", res.Seekers,
		"offerers", res.Offerers)
	return res, nil
}

func (s *Seeder) clear(ctx context.Context) error {
	seekers, err := s.repo.ListSeeking(ctx)
	if err != nil {
		return err
	}
	for _, sk := range seekers {
		if err := s.repo.DeleteSeeking(ctx, sk.ID); err != nil {
			return err
		}
	}

	offerers, err := s.repo.ListOffering(ctx)
	if err != nil {
		return err
	}
	for _, o := range offerers {
		negs, err := s.repo.ListNegotiationsByOfferer(ctx, o.ID)
		if err != nil {
			return err
		}
		for _, n := range negs {
			if err := s.repo.DeleteNegotiation(ctx, n.ID); err != nil {
				return err
			}
		}
		if err := s.repo.DeleteOffering(ctx, o.ID); err != nil {
			return err
		}
	}

	return nil
}
