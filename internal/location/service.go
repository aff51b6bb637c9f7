package location

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rafaelmaranon/Availo/internal/models"
)

// Separate geo keys for the two driver kinds so nearby queries never need
// application-layer filtering.
const (
	GeoKeySeeking  = "geo:seeking"
	GeoKeyOffering = "geo:offering"
)

// NearbySpot is one geo index hit, nearest first.
type NearbySpot struct {
	ID         string  `json:"id"`
	DistanceKm float64 `json:"distance_km"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// Service keeps the Redis geo indexes in step with driver records that carry
// coordinates. Records without coordinates are simply not indexed; the text
// matcher covers them.
type Service struct {
	redisClient *redis.Client
}

func NewService(redisClient *redis.Client) *Service {
	return &Service{redisClient: redisClient}
}

// TrackSeeking indexes a seeker's destination coordinates. A record without
// coordinates is skipped without error.
func (s *Service) TrackSeeking(ctx context.Context, req models.SeekingRequest) error {
	if req.Lat == nil || req.Lng == nil {
		return nil
	}
	return s.geoAdd(ctx, GeoKeySeeking, req.ID, *req.Lat, *req.Lng)
}

// TrackOffering indexes an offered spot's coordinates. A record without
// coordinates is skipped without error.
func (s *Service) TrackOffering(ctx context.Context, req models.OfferingRequest) error {
	if req.Lat == nil || req.Lng == nil {
		return nil
	}
	return s.geoAdd(ctx, GeoKeyOffering, req.ID, *req.Lat, *req.Lng)
}

func (s *Service) geoAdd(ctx context.Context, geoKey, id string, lat, lng float64) error {
	if err := s.redisClient.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      id,
		Longitude: lng,
		Latitude:  lat,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add location to geo index: %w", err)
	}
	return nil
}

// RemoveSeeking drops a seeker from the geo index. Removing an unindexed id
// is a no-op.
func (s *Service) RemoveSeeking(ctx context.Context, id string) error {
	return s.remove(ctx, GeoKeySeeking, id)
}

// RemoveOffering drops an offered spot from the geo index.
func (s *Service) RemoveOffering(ctx context.Context, id string) error {
	return s.remove(ctx, GeoKeyOffering, id)
}

func (s *Service) remove(ctx context.Context, geoKey, id string) error {
	if err := s.redisClient.ZRem(ctx, geoKey, id).Err(); err != nil {
		return fmt.Errorf("failed to remove from geo index: %w", err)
	}
	return nil
}

// NearbyOfferings returns up to limit offered spots within radiusKm of the
// given point, nearest first.
func (s *Service) NearbyOfferings(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbySpot, error) {
	results, err := s.redisClient.GeoRadius(ctx, GeoKeyOffering, lng, lat,
		&redis.GeoRadiusQuery{
			Radius:    radiusKm,
			Unit:      "km",
			WithCoord: true,
			WithDist:  true,
			Count:     limit,
			Sort:      "ASC",
		}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to search nearby spots: %w", err)
	}

	spots := make([]NearbySpot, 0, len(results))
	for _, r := range results {
		spots = append(spots, NearbySpot{
			ID:         r.Name,
			DistanceKm: r.Dist,
			Lat:        r.Latitude,
			Lng:        r.Longitude,
		})
	}
	return spots, nil
}
