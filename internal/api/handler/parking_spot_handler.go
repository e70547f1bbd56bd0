package handler

import (
	"net/http"

	"parkshare/internal/api/middleware"
	"parkshare/internal/domain"
	"parkshare/internal/service"

	"github.com/gin-gonic/gin"
	"gopkg.in/guregu/null.v4"
)

type ParkingSpotHandler struct {
	spotService *service.SpotService
}

func NewParkingSpotHandler(ss *service.SpotService) *ParkingSpotHandler {
	return &ParkingSpotHandler{spotService: ss}
}

type listSpotsQuery struct {
	domain.SpotSearch
	Page int `form:"page,default=1"`
	Size int `form:"size,default=20"`
}

type nearbyQuery struct {
	Latitude  *float64 `form:"latitude" binding:"required"`
	Longitude *float64 `form:"longitude" binding:"required"`
	Radius    *float64 `form:"radius"`
}

// POST /api/parking-spots/
func (h *ParkingSpotHandler) CreateSpot(c *gin.Context) {
	var dto domain.CreateParkingSpotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondBindError(c, err)
		return
	}

	spot, err := h.spotService.CreateSpot(c.Request.Context(), middleware.CallerID(c), dto)
	if err != nil {
		respondError(c, err, "Failed to create parking spot")
		return
	}
	respond(c, http.StatusOK, "Parking spot created successfully", gin.H{"spot_id": spot.ID})
}

// GET /api/parking-spots/
func (h *ParkingSpotHandler) ListSpots(c *gin.Context) {
	var q listSpotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.spotService.ListSpots(c.Request.Context(), q.SpotSearch, q.Page, q.Size)
	if err != nil {
		respondError(c, err, "Failed to get parking spots")
		return
	}
	respond(c, http.StatusOK, "Parking spots retrieved successfully", page)
}

// GET /api/parking-spots/nearby
func (h *ParkingSpotHandler) ListNearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	spots, err := h.spotService.ListNearby(c.Request.Context(), *q.Latitude, *q.Longitude, null.FloatFromPtr(q.Radius))
	if err != nil {
		respondError(c, err, "Failed to get nearby parking spots")
		return
	}
	respond(c, http.StatusOK, "Nearby parking spots retrieved successfully", gin.H{"spots": spots})
}

// GET /api/parking-spots/my-spots
func (h *ParkingSpotHandler) ListMine(c *gin.Context) {
	spots, err := h.spotService.ListMine(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err, "Failed to get your parking spots")
		return
	}
	respond(c, http.StatusOK, "Your parking spots retrieved successfully", gin.H{"spots": spots})
}

// GET /api/parking-spots/:id
func (h *ParkingSpotHandler) GetSpot(c *gin.Context) {
	spot, err := h.spotService.GetSpot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get parking spot")
		return
	}
	respond(c, http.StatusOK, "Parking spot retrieved successfully", gin.H{"spot": spot})
}

// PUT /api/parking-spots/:id
func (h *ParkingSpotHandler) UpdateSpot(c *gin.Context) {
	var patch domain.ParkingSpotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	spot, err := h.spotService.UpdateSpot(c.Request.Context(), c.Param("id"), middleware.CallerID(c), patch)
	if err != nil {
		respondError(c, err, "Failed to update parking spot")
		return
	}
	respond(c, http.StatusOK, "Parking spot updated successfully", gin.H{"spot": spot})
}

// DELETE /api/parking-spots/:id
func (h *ParkingSpotHandler) DeleteSpot(c *gin.Context) {
	if err := h.spotService.DeleteSpot(c.Request.Context(), c.Param("id"), middleware.CallerID(c)); err != nil {
		respondError(c, err, "Failed to delete parking spot")
		return
	}
	respond(c, http.StatusOK, "Parking spot deleted successfully", nil)
}
