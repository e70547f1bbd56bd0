package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"parkshare/internal/domain"
	"parkshare/internal/metrics"
	"parkshare/internal/repository"

	"gopkg.in/guregu/null.v4"
)

// BookingNotifier is told about every booking state change. It must not block.
type BookingNotifier interface {
	Notify(ctx context.Context, event domain.BookingEvent)
}

type BookingService struct {
	bookings repository.BookingRepository
	spots    repository.ParkingSpotRepository
	notifier BookingNotifier
	logger   *slog.Logger
}

func NewBookingService(bookings repository.BookingRepository, spots repository.ParkingSpotRepository,
	notifier BookingNotifier, logger *slog.Logger) *BookingService {
	return &BookingService{bookings: bookings, spots: spots, notifier: notifier, logger: logger}
}

const (
	msgBookingNotFound = "Booking not found"
	msgNoAccess        = "You don't have access to this booking"
)

func (s *BookingService) Create(ctx context.Context, caller string, dto domain.CreateBookingDTO) (*domain.Booking, error) {
	if dto.FinderID != caller {
		return nil, forbidden("You can only create booking requests for yourself")
	}
	spot, err := s.spots.FindByID(ctx, dto.SpotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Parking spot not found")
		}
		return nil, fmt.Errorf("find spot: %w", err)
	}
	if !spot.IsAvailable {
		return nil, invalidInput("Parking spot is not available")
	}
	start, end := dto.StartTime.UTC(), dto.EndTime.UTC()
	if !spot.Covers(start, end) {
		return nil, invalidInput("Requested time is outside spot availability")
	}
	// TODO: zero or negative windows are accepted and priced at <= 0; decide whether to reject them.
	// TODO: overlapping pending/approved bookings on the same spot are not detected.

	booking := &domain.Booking{
		SpotID:      spot.ID,
		StartTime:   start,
		EndTime:     end,
		TotalAmount: domain.TotalAmount(start, end, spot.HourlyRate),
		Status:      domain.BookingPending,
		Message:     dto.Message,
		FinderID:    dto.FinderID,
		FinderName:  dto.FinderName,
		FinderEmail: dto.FinderEmail,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.publish(ctx, domain.BookingEventCreated, created, spot.OwnerID)
	return created, nil
}

func (s *BookingService) Get(ctx context.Context, id, caller string) (*domain.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.FinderID == caller {
		return booking, nil
	}
	owner, err := s.spotOwner(ctx, booking.SpotID)
	if err != nil {
		return nil, err
	}
	if owner != caller {
		return nil, forbidden(msgNoAccess)
	}
	return booking, nil
}

func (s *BookingService) ListMine(ctx context.Context, caller string) ([]domain.Booking, error) {
	bookings, err := s.bookings.FindByFinder(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("list finder bookings: %w", err)
	}
	return bookings, nil
}

// ListPendingForOwner returns pending requests against any spot the caller owns.
func (s *BookingService) ListPendingForOwner(ctx context.Context, caller string) ([]domain.Booking, error) {
	spots, err := s.spots.FindByOwner(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("list owner spots: %w", err)
	}
	if len(spots) == 0 {
		return []domain.Booking{}, nil
	}
	ids := make([]string, len(spots))
	for i, sp := range spots {
		ids[i] = sp.ID
	}
	bookings, err := s.bookings.FindPendingBySpotIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) Approve(ctx context.Context, id, caller string, response null.String) (*domain.Booking, error) {
	return s.respond(ctx, id, caller, response, domain.BookingApproved, "approve")
}

func (s *BookingService) Reject(ctx context.Context, id, caller string, response null.String) (*domain.Booking, error) {
	return s.respond(ctx, id, caller, response, domain.BookingRejected, "reject")
}

// respond moves a pending booking to status on behalf of the spot owner.
func (s *BookingService) respond(ctx context.Context, id, caller string, response null.String,
	status domain.BookingStatus, verb string) (*domain.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.spotOwner(ctx, booking.SpotID)
	if err != nil {
		return nil, err
	}
	if owner == "" || owner != caller {
		return nil, forbidden(fmt.Sprintf("You can only %s requests for your own spots", verb))
	}
	if booking.Status != domain.BookingPending {
		return nil, invalidInput(fmt.Sprintf("Can only %s pending booking requests", verb))
	}

	booking.Status = status
	booking.OwnerResponse = response
	booking.RespondedAt = null.TimeFrom(time.Now().UTC())
	updated, err := s.save(ctx, booking)
	if err != nil {
		return nil, err
	}
	eventType := domain.BookingEventApproved
	if status == domain.BookingRejected {
		eventType = domain.BookingEventRejected
	}
	s.publish(ctx, eventType, updated, owner)
	return updated, nil
}

func (s *BookingService) Cancel(ctx context.Context, id, caller string) (*domain.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.FinderID != caller {
		return nil, forbidden("You can only cancel your own booking requests")
	}
	if !booking.Cancellable() {
		return nil, invalidInput("Can only cancel pending or approved booking requests")
	}

	booking.Status = domain.BookingCancelled
	booking.RespondedAt = null.TimeFrom(time.Now().UTC())
	updated, err := s.save(ctx, booking)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.BookingEventCancelled, updated, s.ownerForEvent(ctx, updated.SpotID))
	return updated, nil
}

func (s *BookingService) Delete(ctx context.Context, id, caller string) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}
	owner := ""
	if booking.FinderID != caller {
		owner, err = s.spotOwner(ctx, booking.SpotID)
		if err != nil {
			return err
		}
		if owner == "" || owner != caller {
			return forbidden(msgNoAccess)
		}
	}
	if !booking.Deletable() {
		return invalidInput("Can only delete cancelled or completed bookings")
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(msgBookingNotFound)
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	if owner == "" {
		owner = s.ownerForEvent(ctx, booking.SpotID)
	}
	s.publish(ctx, domain.BookingEventDeleted, booking, owner)
	return nil
}

// Complete marks an approved booking as finished. It is driven by the
// external completion feed, not by a user.
func (s *BookingService) Complete(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingApproved {
		return nil, invalidInput("Can only complete approved bookings")
	}
	booking.Status = domain.BookingCompleted
	updated, err := s.save(ctx, booking)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.BookingEventCompleted, updated, s.ownerForEvent(ctx, updated.SpotID))
	return updated, nil
}

func (s *BookingService) findBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(msgBookingNotFound)
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return booking, nil
}

// spotOwner returns the owner of spotID, or "" when the spot no longer exists.
func (s *BookingService) spotOwner(ctx context.Context, spotID string) (string, error) {
	spot, err := s.spots.FindByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find spot: %w", err)
	}
	return spot.OwnerID, nil
}

// ownerForEvent is spotOwner for notification purposes only; lookup errors are logged.
func (s *BookingService) ownerForEvent(ctx context.Context, spotID string) string {
	owner, err := s.spotOwner(ctx, spotID)
	if err != nil {
		s.logger.Warn("resolve spot owner for event", "error", err, "spot_id", spotID)
	}
	return owner
}

func (s *BookingService) save(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	updated, err := s.bookings.Update(ctx, booking)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(msgBookingNotFound)
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return updated, nil
}

func (s *BookingService) publish(ctx context.Context, t domain.BookingEventType, b *domain.Booking, ownerID string) {
	metrics.BookingEvents.WithLabelValues(string(t)).Inc()
	s.logger.Info("booking state changed", "event", t, "booking_id", b.ID, "status", b.Status)
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, domain.BookingEvent{
		Type:       t,
		BookingID:  b.ID,
		SpotID:     b.SpotID,
		FinderID:   b.FinderID,
		OwnerID:    ownerID,
		Status:     b.Status,
		OccurredAt: time.Now().UTC(),
	})
}
