package handlers

import (
	"net/http"

	"contesto/internal/models"
	"contesto/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles checkout and participation endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type checkoutRequest struct {
	ContestID uuid.UUID `json:"contestId" binding:"required"`
}

// CreateCheckoutSession opens a hosted checkout for a contest entry fee
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.paymentService.CreateCheckout(c.Request.Context(), email, req.ContestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VerifyPayment reconciles a checkout session into a payment and a participant
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	result, err := h.paymentService.VerifyPayment(c.Request.Context(), email, c.Query("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.Success {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"success":       false,
			"paymentStatus": result.PaymentStatus,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckPaid reports whether the caller joined a contest
func (h *PaymentHandler) CheckPaid(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	contestID, ok := uuidParam(c, "contestId")
	if !ok {
		return
	}

	paid, err := h.paymentService.HasPaid(c.Request.Context(), email, contestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paid": paid})
}

// History lists the caller's payments
func (h *PaymentHandler) History(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	list, err := h.paymentService.History(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Payment{}
	}
	c.JSON(http.StatusOK, list)
}
