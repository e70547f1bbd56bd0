package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingConfirmed BookingStatus = "confirmed" // nothing transitions here yet
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID            string        `json:"id" db:"id"`
	SpotID        string        `json:"spot_id" db:"spot_id"`
	StartTime     time.Time     `json:"start_time" db:"start_time"`
	EndTime       time.Time     `json:"end_time" db:"end_time"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Status        BookingStatus `json:"status" db:"status"`
	Message       null.String   `json:"message" db:"message"`
	OwnerResponse null.String   `json:"owner_response" db:"owner_response"`
	FinderID      string        `json:"finder_id" db:"finder_id"`
	FinderName    string        `json:"finder_name" db:"finder_name"`
	FinderEmail   string        `json:"finder_email" db:"finder_email"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	RespondedAt   null.Time     `json:"responded_at" db:"responded_at"`
}

// Deletable reports whether the booking has reached a state from which it may be removed.
// TODO: rejected bookings are terminal but can never be deleted; decide whether they should be.
func (b Booking) Deletable() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}

func (b Booking) Cancellable() bool {
	return b.Status == BookingPending || b.Status == BookingApproved
}

type CreateBookingDTO struct {
	SpotID      string      `json:"spot_id" binding:"required"`
	StartTime   time.Time   `json:"start_time" binding:"required"`
	EndTime     time.Time   `json:"end_time" binding:"required"`
	Message     null.String `json:"message"`
	FinderID    string      `json:"finder_id" binding:"required"`
	FinderName  string      `json:"finder_name" binding:"required"`
	FinderEmail string      `json:"finder_email" binding:"required"`
}

type BookingResponseDTO struct {
	ResponseMessage null.String `json:"response_message"`
}

// TotalAmount prices a window at the given hourly rate. Fractional hours are
// charged proportionally.
func TotalAmount(start, end time.Time, hourlyRate float64) float64 {
	return end.Sub(start).Hours() * hourlyRate
}
