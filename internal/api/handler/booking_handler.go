package handler

import (
	"errors"
	"io"
	"net/http"

	"parkshare/internal/api/middleware"
	"parkshare/internal/domain"
	"parkshare/internal/service"

	"github.com/gin-gonic/gin"
	"gopkg.in/guregu/null.v4"
)

type BookingHandler struct {
	bookingService *service.BookingService
}

func NewBookingHandler(bs *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// POST /api/bookings/
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var dto domain.CreateBookingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), middleware.CallerID(c), dto)
	if err != nil {
		respondError(c, err, "Failed to create booking request")
		return
	}
	respond(c, http.StatusOK, "Booking request created successfully", gin.H{"booking_id": booking.ID})
}

// GET /api/bookings/my-bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.bookingService.ListMine(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err, "Failed to get your bookings")
		return
	}
	respond(c, http.StatusOK, "Your bookings retrieved successfully", gin.H{"bookings": bookings})
}

// GET /api/bookings/pending-requests
func (h *BookingHandler) ListPendingRequests(c *gin.Context) {
	requests, err := h.bookingService.ListPendingForOwner(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err, "Failed to get pending requests")
		return
	}
	respond(c, http.StatusOK, "Pending booking requests retrieved successfully", gin.H{"requests": requests})
}

// GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.Get(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}
	respond(c, http.StatusOK, "Booking retrieved successfully", gin.H{"booking": booking})
}

// PUT /api/bookings/:id/approve
func (h *BookingHandler) Approve(c *gin.Context) {
	msg, ok := responseMessage(c)
	if !ok {
		return
	}
	booking, err := h.bookingService.Approve(c.Request.Context(), c.Param("id"), middleware.CallerID(c), msg)
	if err != nil {
		respondError(c, err, "Failed to approve booking request")
		return
	}
	respond(c, http.StatusOK, "Booking request approved successfully", gin.H{"booking": booking})
}

// PUT /api/bookings/:id/reject
func (h *BookingHandler) Reject(c *gin.Context) {
	msg, ok := responseMessage(c)
	if !ok {
		return
	}
	booking, err := h.bookingService.Reject(c.Request.Context(), c.Param("id"), middleware.CallerID(c), msg)
	if err != nil {
		respondError(c, err, "Failed to reject booking request")
		return
	}
	respond(c, http.StatusOK, "Booking request rejected successfully", gin.H{"booking": booking})
}

// PUT /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.bookingService.Cancel(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err, "Failed to cancel booking request")
		return
	}
	respond(c, http.StatusOK, "Booking request cancelled successfully", gin.H{"booking": booking})
}

// DELETE /api/bookings/:id
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	if err := h.bookingService.Delete(c.Request.Context(), c.Param("id"), middleware.CallerID(c)); err != nil {
		respondError(c, err, "Failed to delete booking")
		return
	}
	respond(c, http.StatusOK, "Booking deleted successfully", nil)
}

// responseMessage reads the owner's reply from the response_message query
// parameter, falling back to an optional JSON body. It writes a 400 and
// returns false when the body is malformed.
func responseMessage(c *gin.Context) (null.String, bool) {
	if v, ok := c.GetQuery("response_message"); ok {
		return null.StringFrom(v), true
	}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return null.String{}, true
	}
	var dto domain.BookingResponseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		if errors.Is(err, io.EOF) {
			return null.String{}, true
		}
		respondBindError(c, err)
		return null.String{}, false
	}
	return dto.ResponseMessage, true
}
