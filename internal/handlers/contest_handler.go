package handlers

import (
	"net/http"
	"time"

	"contesto/internal/apperr"
	"contesto/internal/auth"
	"contesto/internal/models"
	"contesto/internal/repository"
	"contesto/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const maxImageSize = 5 << 20

// ContestHandler handles contest endpoints
type ContestHandler struct {
	contestService *services.ContestService
}

// NewContestHandler creates a new ContestHandler
func NewContestHandler(contestService *services.ContestService) *ContestHandler {
	return &ContestHandler{contestService: contestService}
}

type createContestRequest struct {
	Name               string          `json:"name" binding:"required"`
	Image              string          `json:"image"`
	Description        string          `json:"description"`
	TaskInstruction    string          `json:"taskInstruction"`
	Category           string          `json:"category" binding:"required"`
	EntryFee           decimal.Decimal `json:"entryFee"`
	PrizeMoney         decimal.Decimal `json:"prizeMoney"`
	ParticipationEndAt time.Time       `json:"participationEndAt"`
}

type updateContestRequest struct {
	Name               *string          `json:"name"`
	Image              *string          `json:"image"`
	Description        *string          `json:"description"`
	TaskInstruction    *string          `json:"taskInstruction"`
	Category           *string          `json:"category"`
	EntryFee           *decimal.Decimal `json:"entryFee"`
	PrizeMoney         *decimal.Decimal `json:"prizeMoney"`
	ParticipationEndAt *time.Time       `json:"participationEndAt"`
}

type moderateContestRequest struct {
	Status models.ModerationStatus `json:"status" binding:"required"`
}

func emptyIfNil(contests []models.Contest) []models.Contest {
	if contests == nil {
		return []models.Contest{}
	}
	return contests
}

// List returns approved contests with optional filters
func (h *ContestHandler) List(c *gin.Context) {
	contests, err := h.contestService.ListPublic(c.Request.Context(), repository.ContestFilter{
		Category:      c.Query("category"),
		Search:        c.Query("searchText"),
		ContestStatus: models.ContestStatus(c.Query("contestStatus")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(contests))
}

// Popular returns the most joined approved contests
func (h *ContestHandler) Popular(c *gin.Context) {
	contests, err := h.contestService.Popular(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contests)
}

// Get returns a contest by id or slug
func (h *ContestHandler) Get(c *gin.Context) {
	contest, err := h.contestService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contest)
}

// Winner returns the winner of a completed contest
func (h *ContestHandler) Winner(c *gin.Context) {
	winner, err := h.contestService.Winner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winner)
}

// Create adds a contest for moderation (creator)
func (h *ContestHandler) Create(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	var req createContestRequest
	if !bindJSON(c, &req) {
		return
	}

	contest, err := h.contestService.Create(c.Request.Context(), email, services.ContestInput{
		Name:               req.Name,
		Image:              req.Image,
		Description:        req.Description,
		TaskInstruction:    req.TaskInstruction,
		Category:           req.Category,
		EntryFee:           req.EntryFee,
		PrizeMoney:         req.PrizeMoney,
		ParticipationEndAt: req.ParticipationEndAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contest)
}

// UpdateByCreator edits a pending contest (creator, owner)
func (h *ContestHandler) UpdateByCreator(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateContestRequest
	if !bindJSON(c, &req) {
		return
	}

	contest, err := h.contestService.UpdateByCreator(c.Request.Context(), email, id, services.ContestUpdate{
		Name:               req.Name,
		Image:              req.Image,
		Description:        req.Description,
		TaskInstruction:    req.TaskInstruction,
		Category:           req.Category,
		EntryFee:           req.EntryFee,
		PrizeMoney:         req.PrizeMoney,
		ParticipationEndAt: req.ParticipationEndAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contest)
}

// Moderate approves or rejects a contest (admin)
func (h *ContestHandler) Moderate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req moderateContestRequest
	if !bindJSON(c, &req) {
		return
	}

	contest, err := h.contestService.Moderate(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contest)
}

// Delete removes a contest (admin any, creator own pending)
func (h *ContestHandler) Delete(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	role, _ := auth.GetRole(c)

	if err := h.contestService.Delete(c.Request.Context(), email, role, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListMine returns the caller's contests (creator)
func (h *ContestHandler) ListMine(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	contests, err := h.contestService.ListByCreator(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(contests))
}

// ListAll returns every contest, optionally by status (admin)
func (h *ContestHandler) ListAll(c *gin.Context) {
	contests, err := h.contestService.ListAll(c.Request.Context(), models.ModerationStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(contests))
}

// ListJoined returns the contests the caller joined
func (h *ContestHandler) ListJoined(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	contests, err := h.contestService.ListJoined(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(contests))
}

// SelectWinner completes a contest with the given submission (creator, owner)
func (h *ContestHandler) SelectWinner(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	contestID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	submissionID, ok := uuidParam(c, "submissionId")
	if !ok {
		return
	}

	result, err := h.contestService.SelectWinner(c.Request.Context(), email, contestID, submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"contest":    result.Contest,
		"submission": result.Submission,
		"lostCount":  result.LostCount,
	})
}

// UploadImage stores a contest image from the multipart "image" field (creator, owner)
func (h *ContestHandler) UploadImage(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperr.Validation("image file is required"))
		return
	}
	if fileHeader.Size > maxImageSize {
		respondError(c, apperr.Validation("image must be at most 5MB"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperr.Validation("failed to read image"))
		return
	}
	defer file.Close()

	contest, err := h.contestService.UploadImage(c.Request.Context(), email, id, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contest)
}
