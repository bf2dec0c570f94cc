package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"slotline/services/booking"
)

// BookingHandler serves finalization and post-confirmation endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// FinalizeFromHold consumes a hold and returns the confirmed booking.
func (h *BookingHandler) FinalizeFromHold(c *gin.Context) {
	var input struct {
		HoldID     string `json:"hold_id" binding:"required"`
		CustomerID string `json:"customer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, "invalid input: "+err.Error())
		return
	}

	confirmed, err := h.Service.FinalizeFromHold(c.Request.Context(), input.HoldID, input.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, confirmed)
}

// Reschedule moves a confirmed booking to a new start time.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	var input struct {
		StartAt time.Time `json:"start_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, "invalid input: "+err.Error())
		return
	}

	moved, err := h.Service.RescheduleBooking(c.Request.Context(), c.Param("id"), input.StartAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moved)
}

// Cancel cancels a confirmed booking; cancelling twice is a no-op.
func (h *BookingHandler) Cancel(c *gin.Context) {
	if err := h.Service.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
