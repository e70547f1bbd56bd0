package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkshare/internal/domain"
	"parkshare/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type pgParkingSpotRepository struct {
	db *sqlx.DB
}

func NewPgParkingSpotRepository(db *sqlx.DB) repository.ParkingSpotRepository {
	return &pgParkingSpotRepository{db: db}
}

const spotColumns = `id, address, latitude, longitude, hourly_rate, is_available, availability_start,
	availability_end, max_vehicle_size, description, image_url, owner_id, owner_name, created_at, updated_at`

func (r *pgParkingSpotRepository) Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	spot.ID = uuid.NewString()
	query := `INSERT INTO parking_spots (` + spotColumns + `)
	          VALUES (:id, :address, :latitude, :longitude, :hourly_rate, :is_available, :availability_start,
	                  :availability_end, :max_vehicle_size, :description, :image_url, :owner_id, :owner_name,
	                  :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, spot); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: parking spot %s", repository.ErrDuplicateEntry, spot.ID)
		}
		return nil, fmt.Errorf("ParkingSpotRepository.Create: %w", err)
	}
	return spot, nil
}

func (r *pgParkingSpotRepository) FindByID(ctx context.Context, id string) (*domain.ParkingSpot, error) {
	spot := &domain.ParkingSpot{}
	query := `SELECT ` + spotColumns + ` FROM parking_spots WHERE id = $1`
	if err := r.db.GetContext(ctx, spot, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSpotRepository.FindByID: %w", err)
	}
	normalizeSpot(spot)
	return spot, nil
}

func (r *pgParkingSpotRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.ParkingSpot, error) {
	query := `SELECT ` + spotColumns + ` FROM parking_spots WHERE owner_id = $1 ORDER BY created_at`
	return r.selectSpots(ctx, "FindByOwner", query, ownerID)
}

func (r *pgParkingSpotRepository) FindAvailable(ctx context.Context) ([]domain.ParkingSpot, error) {
	query := `SELECT ` + spotColumns + ` FROM parking_spots WHERE is_available = TRUE ORDER BY created_at`
	return r.selectSpots(ctx, "FindAvailable", query)
}

func (r *pgParkingSpotRepository) Update(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	query := `UPDATE parking_spots SET address = :address, latitude = :latitude, longitude = :longitude,
	          hourly_rate = :hourly_rate, is_available = :is_available, availability_start = :availability_start,
	          availability_end = :availability_end, max_vehicle_size = :max_vehicle_size,
	          description = :description, image_url = :image_url, updated_at = :updated_at
	          WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, spot)
	if err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.Update: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return spot, nil
}

func (r *pgParkingSpotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parking_spots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ParkingSpotRepository.Delete: %w", err)
	}
	return expectOneRow(res)
}

func (r *pgParkingSpotRepository) selectSpots(ctx context.Context, op, query string, args ...any) ([]domain.ParkingSpot, error) {
	spots := []domain.ParkingSpot{}
	if err := r.db.SelectContext(ctx, &spots, query, args...); err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.%s: %w", op, err)
	}
	for i := range spots {
		normalizeSpot(&spots[i])
	}
	return spots, nil
}

func normalizeSpot(s *domain.ParkingSpot) {
	s.AvailabilityStart = s.AvailabilityStart.In(time.UTC)
	s.AvailabilityEnd = s.AvailabilityEnd.In(time.UTC)
	s.CreatedAt = s.CreatedAt.In(time.UTC)
	s.UpdatedAt = s.UpdatedAt.In(time.UTC)
}
