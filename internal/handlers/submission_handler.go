package handlers

import (
	"net/http"

	"contesto/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmissionHandler handles contest entries
type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

type createSubmissionRequest struct {
	ContestID       uuid.UUID `json:"contestId" binding:"required"`
	SubmissionValue string    `json:"submissionValue" binding:"required"`
}

type updateSubmissionRequest struct {
	SubmissionValue string `json:"submissionValue" binding:"required"`
}

// Create stores the caller's entry for a contest
func (h *SubmissionHandler) Create(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	var req createSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	submission, err := h.submissionService.Create(c.Request.Context(), email, req.ContestID, req.SubmissionValue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// Update edits the caller's pending entry
func (h *SubmissionHandler) Update(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	submission, err := h.submissionService.Update(c.Request.Context(), email, id, req.SubmissionValue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// Mine returns the caller's entry for a contest
func (h *SubmissionHandler) Mine(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	contestID, ok := uuidParam(c, "contestId")
	if !ok {
		return
	}

	submission, err := h.submissionService.Mine(c.Request.Context(), email, contestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// ListForContest returns a contest's entries with submitter profiles (creator, owner)
func (h *SubmissionHandler) ListForContest(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	contestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	views, err := h.submissionService.ListForCreator(c.Request.Context(), email, contestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
