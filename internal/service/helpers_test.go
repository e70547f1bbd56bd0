package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"parkshare/internal/domain"
	"parkshare/internal/identity"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeVerifier struct {
	known map[string]bool
	err   error
}

func (f *fakeVerifier) VerifyToken(context.Context, string) (*identity.Claims, error) {
	return nil, identity.ErrUnauthenticated
}

func (f *fakeVerifier) LookupIdentity(_ context.Context, uid string) error {
	if f.err != nil {
		return f.err
	}
	if !f.known[uid] {
		return identity.ErrUnknownIdentity
	}
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (r *recordingNotifier) Notify(_ context.Context, e domain.BookingEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

var window = time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

func spotFixture(id, owner string, rate float64) *domain.ParkingSpot {
	return &domain.ParkingSpot{
		ID:                id,
		Address:           "1 Test Way",
		HourlyRate:        rate,
		IsAvailable:       true,
		AvailabilityStart: window,
		AvailabilityEnd:   window.Add(12 * time.Hour),
		MaxVehicleSize:    domain.VehicleAny,
		OwnerID:           owner,
		OwnerName:         "Owner",
	}
}

func bookingFixture(id, spotID, finder string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		SpotID:    spotID,
		StartTime: window.Add(time.Hour),
		EndTime:   window.Add(3 * time.Hour),
		Status:    status,
		FinderID:  finder,
	}
}

func ptr[T any](v T) *T { return &v }
