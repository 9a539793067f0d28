package handlers

import (
	"net/http"

	"contesto/internal/models"
	"contesto/internal/services"

	"github.com/gin-gonic/gin"
)

// CreatorHandler handles creator applications
type CreatorHandler struct {
	creatorService *services.CreatorService
}

// NewCreatorHandler creates a new CreatorHandler
func NewCreatorHandler(creatorService *services.CreatorService) *CreatorHandler {
	return &CreatorHandler{creatorService: creatorService}
}

type applyRequest struct {
	Name       string `json:"name"`
	PhotoURL   string `json:"photoURL"`
	Experience string `json:"experience"`
}

// Apply files a creator application for the caller
func (h *CreatorHandler) Apply(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	var req applyRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.creatorService.Apply(c.Request.Context(), email, services.ApplyInput{
		Name:       req.Name,
		PhotoURL:   req.PhotoURL,
		Experience: req.Experience,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// List returns creator applications (admin)
func (h *CreatorHandler) List(c *gin.Context) {
	apps, err := h.creatorService.List(c.Request.Context(), models.ApplicationStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	if apps == nil {
		apps = []models.CreatorApplication{}
	}
	c.JSON(http.StatusOK, apps)
}

type applicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

// SetStatus approves or rejects an application (admin)
func (h *CreatorHandler) SetStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req applicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.creatorService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Delete removes an application (admin)
func (h *CreatorHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.creatorService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
