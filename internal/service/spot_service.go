package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"parkshare/internal/cache"
	"parkshare/internal/domain"
	"parkshare/internal/repository"

	"gopkg.in/guregu/null.v4"
)

type SpotService struct {
	spots  repository.ParkingSpotRepository
	cache  cache.SpotCache
	logger *slog.Logger
}

func NewSpotService(spots repository.ParkingSpotRepository, spotCache cache.SpotCache, logger *slog.Logger) *SpotService {
	if spotCache == nil {
		spotCache = cache.NopSpotCache{}
	}
	return &SpotService{spots: spots, cache: spotCache, logger: logger}
}

const msgSpotNotFound = "Parking spot not found"

func (s *SpotService) CreateSpot(ctx context.Context, caller string, dto domain.CreateParkingSpotDTO) (*domain.ParkingSpot, error) {
	if dto.OwnerID != caller {
		return nil, forbidden("You can only create parking spots for yourself")
	}
	// TODO: availability_start <= availability_end is not checked; decide whether to reject inverted windows.
	now := time.Now().UTC()
	spot := &domain.ParkingSpot{
		Address:           dto.Address,
		Latitude:          dto.Latitude,
		Longitude:         dto.Longitude,
		HourlyRate:        dto.HourlyRate,
		IsAvailable:       true,
		AvailabilityStart: dto.AvailabilityStart.UTC(),
		AvailabilityEnd:   dto.AvailabilityEnd.UTC(),
		MaxVehicleSize:    dto.MaxVehicleSize,
		Description:       dto.Description,
		ImageURL:          dto.ImageURL,
		OwnerID:           dto.OwnerID,
		OwnerName:         dto.OwnerName,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if dto.IsAvailable != nil {
		spot.IsAvailable = *dto.IsAvailable
	}
	created, err := s.spots.Create(ctx, spot)
	if err != nil {
		return nil, fmt.Errorf("create spot: %w", err)
	}
	s.logger.Info("parking spot created", "spot_id", created.ID, "owner_id", created.OwnerID)
	return created, nil
}

// GetSpot reads through the spot cache. Cache failures fall back to the store.
func (s *SpotService) GetSpot(ctx context.Context, id string) (*domain.ParkingSpot, error) {
	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("spot cache read failed", "error", err, "spot_id", id)
	}

	spot, err := s.findSpot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, spot); err != nil {
		s.logger.Warn("spot cache write failed", "error", err, "spot_id", id)
	}
	return spot, nil
}

func (s *SpotService) UpdateSpot(ctx context.Context, id, caller string, patch domain.ParkingSpotPatch) (*domain.ParkingSpot, error) {
	spot, err := s.findSpot(ctx, id)
	if err != nil {
		return nil, err
	}
	if spot.OwnerID != caller {
		return nil, forbidden("You can only update your own parking spots")
	}
	if patch.MaxVehicleSize.Valid && !domain.VehicleSize(patch.MaxVehicleSize.String).Valid() {
		return nil, invalidInput("Invalid vehicle size")
	}
	merged := domain.ApplySpotPatch(*spot, patch, time.Now().UTC())
	updated, err := s.spots.Update(ctx, &merged)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(msgSpotNotFound)
		}
		return nil, fmt.Errorf("update spot: %w", err)
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *SpotService) DeleteSpot(ctx context.Context, id, caller string) error {
	spot, err := s.findSpot(ctx, id)
	if err != nil {
		return err
	}
	if spot.OwnerID != caller {
		return forbidden("You can only delete your own parking spots")
	}
	// TODO: open bookings of the spot are left untouched; decide whether to cancel them here.
	if err := s.spots.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(msgSpotNotFound)
		}
		return fmt.Errorf("delete spot: %w", err)
	}
	s.invalidate(ctx, id)
	s.logger.Info("parking spot deleted", "spot_id", id, "owner_id", caller)
	return nil
}

// ListSpots filters the available spots by q and returns the requested page.
func (s *SpotService) ListSpots(ctx context.Context, q domain.SpotSearch, page, size int) (*domain.SpotPage, error) {
	if page < 1 {
		return nil, invalidInput("page must be at least 1")
	}
	if size < 1 || size > MaxPageSize {
		return nil, invalidInput(fmt.Sprintf("size must be between 1 and %d", MaxPageSize))
	}
	available, err := s.spots.FindAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available spots: %w", err)
	}
	result := Paginate(FilterSpots(available, q), page, size)
	return &result, nil
}

// ListNearby returns available spots within radius meters, nearest first.
func (s *SpotService) ListNearby(ctx context.Context, lat, lon float64, radius null.Float) ([]domain.SpotWithDistance, error) {
	r := radius.ValueOrZero()
	if !radius.Valid {
		r = DefaultNearbyRadius
	}
	if lat < -90 || lat > 90 {
		return nil, invalidInput("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return nil, invalidInput("longitude must be between -180 and 180")
	}
	if r < MinNearbyRadius || r > MaxNearbyRadius {
		return nil, invalidInput(fmt.Sprintf("radius must be between %g and %g meters", MinNearbyRadius, MaxNearbyRadius))
	}
	available, err := s.spots.FindAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available spots: %w", err)
	}
	return Nearby(available, lat, lon, r), nil
}

func (s *SpotService) ListMine(ctx context.Context, caller string) ([]domain.ParkingSpot, error) {
	spots, err := s.spots.FindByOwner(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("list owner spots: %w", err)
	}
	return spots, nil
}

func (s *SpotService) findSpot(ctx context.Context, id string) (*domain.ParkingSpot, error) {
	spot, err := s.spots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(msgSpotNotFound)
		}
		return nil, fmt.Errorf("find spot: %w", err)
	}
	return spot, nil
}

func (s *SpotService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("spot cache invalidation failed", "error", err, "spot_id", id)
	}
}
