package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotline/models"
	"slotline/services/booking"
)

// RequestHandler serves the on-demand request endpoints.
type RequestHandler struct {
	Service booking.BookingService
}

func NewRequestHandler(svc booking.BookingService) *RequestHandler {
	return &RequestHandler{Service: svc}
}

// Create opens an on-demand request awaiting the provider's decision.
func (h *RequestHandler) Create(c *gin.Context) {
	var draft models.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondValidation(c, "invalid input: "+err.Error())
		return
	}

	req, err := h.Service.CreateRequest(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// Accept confirms the request and returns the created booking.
func (h *RequestHandler) Accept(c *gin.Context) {
	confirmed, err := h.Service.AcceptRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, confirmed)
}

// Decline rejects the request with an optional reason.
func (h *RequestHandler) Decline(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a missing reason is fine.
	_ = c.ShouldBindJSON(&input)

	if err := h.Service.DeclineRequest(c.Request.Context(), c.Param("id"), input.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}
