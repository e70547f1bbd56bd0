package repository

import (
	"context"
	"errors"
	"time"

	"parkshare/internal/domain"
)

var ErrNotFound = errors.New("record not found")
var ErrDuplicateEntry = errors.New("record already exists")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUID(ctx context.Context, uid string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, uid string, at time.Time) error
	Delete(ctx context.Context, uid string) error
}

type ParkingSpotRepository interface {
	// Create assigns the spot a new opaque id.
	Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error)
	FindByID(ctx context.Context, id string) (*domain.ParkingSpot, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.ParkingSpot, error)
	// FindAvailable returns every spot with is_available set, oldest first.
	FindAvailable(ctx context.Context) ([]domain.ParkingSpot, error)
	Update(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error)
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	// Create assigns the booking a new opaque id.
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	FindByFinder(ctx context.Context, finderID string) ([]domain.Booking, error)
	// FindPendingBySpotIDs returns the pending bookings of any of the given spots.
	FindPendingBySpotIDs(ctx context.Context, spotIDs []string) ([]domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
}
