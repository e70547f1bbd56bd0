package handler

import (
	"net/http"

	"parkshare/internal/api/middleware"
	"parkshare/internal/domain"
	"parkshare/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(us *service.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var dto domain.RegisterUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}
	respond(c, http.StatusOK, "User registered successfully", gin.H{"user_id": user.UID})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	caller := middleware.CallerID(c)
	if uid, ok := c.GetQuery("firebase_uid"); ok && uid != caller {
		respondFailure(c, http.StatusForbidden, "You can only log in as yourself")
		return
	}

	user, err := h.userService.Login(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	respond(c, http.StatusOK, "Login successful", gin.H{"user": user})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}
	respond(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

// DELETE /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	respond(c, http.StatusOK, "Logout successful", nil)
}
