package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"slotline/middleware"
	"slotline/services/hold"
)

// HoldHandler serves the hold lifecycle endpoints.
type HoldHandler struct {
	Service hold.HoldService
}

func NewHoldHandler(svc hold.HoldService) *HoldHandler {
	return &HoldHandler{Service: svc}
}

type createHoldInput struct {
	ProviderID           string            `json:"provider_id" binding:"required"`
	StaffID              string            `json:"staff_id"`
	StartAt              time.Time         `json:"start_at" binding:"required"`
	OfferingIDs          []string          `json:"offering_ids" binding:"required"`
	LocationType         string            `json:"location_type"`
	LocationID           string            `json:"location_id"`
	Address              string            `json:"address"`
	CustomerID           string            `json:"customer_id"`
	GuestFingerprintHash string            `json:"guest_fingerprint_hash"`
	Metadata             map[string]string `json:"metadata"`
}

// CreateHold places a short-lived exclusive claim on an interval. The
// rate-limit identity is the customer when known, the device fingerprint for
// guests, and the client IP as a last resort.
func (h *HoldHandler) CreateHold(c *gin.Context) {
	var input createHoldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, "invalid input: "+err.Error())
		return
	}

	identity := input.CustomerID
	if identity == "" {
		identity = input.GuestFingerprintHash
	}
	if identity == "" {
		identity = middleware.ClientIP(c)
	}

	created, err := h.Service.CreateHold(c.Request.Context(), hold.CreateHoldRequest{
		ProviderID:           input.ProviderID,
		StaffID:              input.StaffID,
		StartAt:              input.StartAt,
		OfferingIDs:          input.OfferingIDs,
		LocationType:         input.LocationType,
		LocationID:           input.LocationID,
		Address:              input.Address,
		GuestFingerprintHash: input.GuestFingerprintHash,
		IdentityKey:          identity,
		Metadata:             input.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetHold returns a hold if it is still live; expired or consumed holds are
// reported as gone.
func (h *HoldHandler) GetHold(c *gin.Context) {
	found, err := h.Service.GetHold(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}
