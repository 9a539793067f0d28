package handlers

import (
	"net/http"

	"contesto/internal/models"
	"contesto/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// Register creates a user with role user, or reports that it already exists
func (h *UserHandler) Register(c *gin.Context) {
	var req registerUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, created, err := h.userService.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"message":  "user already exist",
			"inserted": false,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"inserted": true,
		"user":     user,
	})
}

// List returns users matching the searchText query (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.Search(c.Request.Context(), c.Query("searchText"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type updateRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// UpdateRole changes a user's role (admin)
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetRole returns the role of a user; callers may read their own or, as admin, anyone's
func (h *UserHandler) GetRole(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	role, err := h.userService.RoleFor(c.Request.Context(), email, c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// GetProfile returns the caller's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	user, err := h.userService.Profile(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photoURL"`
	Bio      *string `json:"bio"`
	Address  *string `json:"address"`
}

// UpdateProfile edits the caller's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), email, services.ProfileUpdate{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Bio:      req.Bio,
		Address:  req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Leaderboard ranks users by contest wins
func (h *UserHandler) Leaderboard(c *gin.Context) {
	entries, err := h.userService.Leaderboard(c.Request.Context(), 20)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
