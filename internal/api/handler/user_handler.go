package handler

import (
	"net/http"

	"parkshare/internal/api/middleware"
	"parkshare/internal/domain"
	"parkshare/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(us *service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err, "Failed to get profile")
		return
	}
	respond(c, http.StatusOK, "Profile retrieved successfully", gin.H{"user": user})
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.CallerID(c), patch)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	respond(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}

// DELETE /api/users/profile
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	if err := h.userService.DeleteProfile(c.Request.Context(), middleware.CallerID(c)); err != nil {
		respondError(c, err, "Failed to delete profile")
		return
	}
	respond(c, http.StatusOK, "Profile deleted successfully", nil)
}
