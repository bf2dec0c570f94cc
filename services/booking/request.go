package booking

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slotline/models"
	"slotline/services/availability"
	"slotline/services/notification"
	"slotline/utils"
)

// CreateRequest opens an on-demand request. The draft is validated up front
// so an accept cannot fail on bad input, only on a conflict that appeared in
// the meantime.
func (s *DefaultBookingService) CreateRequest(ctx context.Context, draft models.BookingDraft) (*models.OnDemandRequest, error) {
	if draft.ProviderID == "" || draft.CustomerID == "" {
		return nil, models.NewValidationError("provider_id and customer_id are required")
	}
	if len(draft.Services) == 0 {
		return nil, models.NewValidationError("at least one service is required")
	}
	if draft.StartAt.Before(s.now()) {
		return nil, models.NewValidationError("start_at is in the past")
	}
	if _, _, err := s.layoutDraft(ctx, draft); err != nil {
		return nil, err
	}

	now := s.now()
	req := &models.OnDemandRequest{
		ID:         uuid.NewString(),
		ProviderID: draft.ProviderID,
		CustomerID: draft.CustomerID,
		Status:     models.RequestStatusRequested,
		ExpiresAt:  now.Add(s.requestTTL()),
		Payload:    draft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Requests.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	s.notify(ctx, notification.Intent{
		Type:        notification.TypeRequestCreated,
		RecipientID: draft.ProviderID,
		ProviderID:  draft.ProviderID,
		RequestID:   req.ID,
		Message:     "New on-demand booking request",
	})
	return req, nil
}

// AcceptRequest flips the request to accepted and creates the booking from
// its draft. The flip is the commit point; everything after it is best effort,
// so a post-flip failure leaves the request accepted without a booking and is
// logged rather than rolled back.
func (s *DefaultBookingService) AcceptRequest(ctx context.Context, requestID string) (*models.Booking, error) {
	flipped, err := s.Requests.MarkAccepted(ctx, requestID, s.now())
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, models.NewAlreadyHandledError(requestID)
	}

	req, err := s.Requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, models.NewNotFoundError("request %s not found", requestID)
	}

	services, total, err := s.layoutDraft(ctx, req.Payload)
	if err != nil {
		utils.GetLogger().Error("Request accepted but draft no longer valid",
			zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	for _, svc := range services {
		scope := availability.ConflictScope{
			ProviderID: req.ProviderID,
			StaffID:    svc.StaffID,
			LocationID: req.Payload.LocationID,
		}
		free, err := s.Conflict.IsIntervalFree(ctx, scope, svc.ScheduledStartAt, svc.BlockedUntil)
		if err != nil {
			return nil, err
		}
		if !free {
			utils.GetLogger().Warn("Request accepted but interval was taken",
				zap.String("request_id", requestID))
			return nil, models.NewConflictError("the requested time is no longer available")
		}
	}

	now := s.now()
	booking := &models.Booking{
		ID:           uuid.NewString(),
		ProviderID:   req.ProviderID,
		CustomerID:   req.CustomerID,
		Status:       models.BookingStatusConfirmed,
		Services:     services,
		LocationType: req.Payload.LocationType,
		LocationID:   req.Payload.LocationID,
		Address:      req.Payload.Address,
		TotalPrice:   total,
		RequestID:    req.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Bookings.CreateBooking(ctx, booking); err != nil {
		utils.GetLogger().Error("Request accepted but booking insert failed",
			zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	if err := s.Requests.LinkBooking(ctx, requestID, booking.ID); err != nil {
		utils.GetLogger().Warn("Failed to link booking to accepted request",
			zap.String("request_id", requestID),
			zap.String("booking_id", booking.ID), zap.Error(err))
	}

	s.notify(ctx, notification.Intent{
		Type:        notification.TypeRequestAccepted,
		RecipientID: req.CustomerID,
		ProviderID:  req.ProviderID,
		RequestID:   req.ID,
		BookingID:   booking.ID,
		Message:     "Your request was accepted",
	})
	return booking, nil
}

// DeclineRequest flips requested → declined. A request that is already
// declined, accepted or expired is reported as already handled and left
// untouched.
func (s *DefaultBookingService) DeclineRequest(ctx context.Context, requestID, reason string) error {
	flipped, err := s.Requests.MarkDeclined(ctx, requestID, reason, s.now())
	if err != nil {
		return err
	}
	if flipped {
		req, err := s.Requests.GetRequestByID(ctx, requestID)
		if err == nil && req != nil {
			s.notify(ctx, notification.Intent{
				Type:        notification.TypeRequestDeclined,
				RecipientID: req.CustomerID,
				ProviderID:  req.ProviderID,
				RequestID:   req.ID,
				Message:     "Your request was declined",
			})
		}
		return nil
	}

	req, err := s.Requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return models.NewNotFoundError("request %s not found", requestID)
	}
	return models.NewAlreadyHandledError(requestID)
}

// layoutDraft resolves the draft's offerings, lays them out sequentially and
// prices them. Returns the service lines plus the total price.
func (s *DefaultBookingService) layoutDraft(ctx context.Context, draft models.BookingDraft) ([]models.BookingService, float64, error) {
	offerings := make([]models.Offering, 0, len(draft.Services))
	staffIDs := make([]string, 0, len(draft.Services))
	for _, line := range draft.Services {
		off, err := s.Catalog.GetOfferingByID(ctx, line.OfferingID)
		if err != nil {
			return nil, 0, err
		}
		if off == nil || !off.IsActive {
			return nil, 0, models.NewValidationError("offering %s not found or inactive", line.OfferingID)
		}
		if draft.LocationType == models.LocationTypeAtHome && !off.AtHomeSupported {
			return nil, 0, models.NewValidationError("offering %s is not offered at home", line.OfferingID)
		}
		staffID := line.StaffID
		if staffID == "" {
			staffID = draft.StaffID
		}
		offerings = append(offerings, *off)
		staffIDs = append(staffIDs, staffID)
	}

	planned, _ := availability.LayoutSequential(draft.StartAt, offerings, staffIDs)
	services := make([]models.BookingService, 0, len(planned))
	var total float64
	for _, p := range planned {
		price := p.Offering.BasePrice
		if draft.LocationType == models.LocationTypeAtHome {
			price = p.Offering.AtHomePrice
		}
		services = append(services, models.BookingService{
			OfferingID:       p.Offering.ID,
			StaffID:          p.StaffID,
			ScheduledStartAt: p.StartAt,
			ScheduledEndAt:   p.EndAt,
			BlockedUntil:     p.BlockedUntil,
			DurationMinutes:  p.Offering.DurationMinutes,
			BufferMinutes:    p.Offering.BufferMinutes,
			Price:            price,
		})
		total += price
	}
	return services, total, nil
}
