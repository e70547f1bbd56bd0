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

type pgBookingRepository struct {
	db *sqlx.DB
}

func NewPgBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &pgBookingRepository{db: db}
}

const bookingColumns = `id, spot_id, start_time, end_time, total_amount, status, message, owner_response,
	finder_id, finder_name, finder_email, created_at, responded_at`

func (r *pgBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = uuid.NewString()
	query := `INSERT INTO bookings (` + bookingColumns + `)
	          VALUES (:id, :spot_id, :start_time, :end_time, :total_amount, :status, :message, :owner_response,
	                  :finder_id, :finder_name, :finder_email, :created_at, :responded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: booking %s", repository.ErrDuplicateEntry, booking.ID)
		}
		return nil, fmt.Errorf("BookingRepository.Create: %w", err)
	}
	return booking, nil
}

func (r *pgBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	booking := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, booking, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("BookingRepository.FindByID: %w", err)
	}
	normalizeBooking(booking)
	return booking, nil
}

func (r *pgBookingRepository) FindByFinder(ctx context.Context, finderID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE finder_id = $1 ORDER BY created_at`
	return r.selectBookings(ctx, "FindByFinder", query, finderID)
}

func (r *pgBookingRepository) FindPendingBySpotIDs(ctx context.Context, spotIDs []string) ([]domain.Booking, error) {
	if len(spotIDs) == 0 {
		return []domain.Booking{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+bookingColumns+` FROM bookings
	                             WHERE status = ? AND spot_id IN (?) ORDER BY created_at`,
		string(domain.BookingPending), spotIDs)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.FindPendingBySpotIDs: %w", err)
	}
	return r.selectBookings(ctx, "FindPendingBySpotIDs", r.db.Rebind(query), args...)
}

func (r *pgBookingRepository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	query := `UPDATE bookings SET status = :status, owner_response = :owner_response, responded_at = :responded_at
	          WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, booking)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.Update: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *pgBookingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("BookingRepository.Delete: %w", err)
	}
	return expectOneRow(res)
}

func (r *pgBookingRepository) selectBookings(ctx context.Context, op, query string, args ...any) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("BookingRepository.%s: %w", op, err)
	}
	for i := range bookings {
		normalizeBooking(&bookings[i])
	}
	return bookings, nil
}

func normalizeBooking(b *domain.Booking) {
	b.StartTime = b.StartTime.In(time.UTC)
	b.EndTime = b.EndTime.In(time.UTC)
	b.CreatedAt = b.CreatedAt.In(time.UTC)
	if b.RespondedAt.Valid {
		b.RespondedAt.Time = b.RespondedAt.Time.In(time.UTC)
	}
}
