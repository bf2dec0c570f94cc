package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slotline/services/availability"
)

// AvailabilityHandler serves slot listings.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// GetAvailability lists candidate slots for one offering on one date.
// staff_id selects one staff member; staff_id=any unions all active staff.
// duration_minutes overrides the offering's duration for the listing.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	req := availability.AvailabilityRequest{
		ProviderID: c.Query("provider_id"),
		Date:       c.Query("date"),
		OfferingID: c.Query("offering_id"),
		LocationID: c.Query("location_id"),
	}
	switch staffID := c.Query("staff_id"); staffID {
	case "":
		respondValidation(c, "staff_id is required (use staff_id=any for any staff)")
		return
	case "any":
		req.AnyStaff = true
	default:
		req.StaffID = staffID
	}
	if req.Date == "" || req.OfferingID == "" {
		respondValidation(c, "date and offering_id are required")
		return
	}
	if v := c.Query("duration_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondValidation(c, "duration_minutes must be a positive integer")
			return
		}
		req.DurationMinutes = n
	}
	if v := c.Query("min_notice_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondValidation(c, "min_notice_minutes must be a non-negative integer")
			return
		}
		req.MinNoticeMinutes = n
	}
	if v := c.Query("max_advance_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondValidation(c, "max_advance_days must be a positive integer")
			return
		}
		req.MaxAdvanceDays = n
	}

	slots, err := h.Service.GetAvailability(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "slots": slots})
}
