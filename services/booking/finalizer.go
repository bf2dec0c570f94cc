package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slotline/models"
	"slotline/services/availability"
	"slotline/services/notification"
	"slotline/utils"
)

// FinalizeFromHold turns a live hold into a confirmed booking. The hold's
// ConsumeHold transition is the commit point: it can only succeed once, so two
// concurrent finalizations of the same hold produce exactly one booking.
func (s *DefaultBookingService) FinalizeFromHold(ctx context.Context, holdID, customerID string) (*models.Booking, error) {
	if customerID == "" {
		return nil, models.NewValidationError("customer_id is required")
	}

	hold, err := s.Holds.GetHold(ctx, holdID)
	if err != nil {
		return nil, err
	}

	// The hold's lock buckets shield it from other holds, but a confirmed
	// booking may still have landed on the interval through another path.
	// The hold itself is excluded from the check: it is still live here and
	// would otherwise always overlap its own interval.
	for _, svc := range hold.Services {
		scope := availability.ConflictScope{
			ProviderID:    hold.ProviderID,
			StaffID:       svc.StaffID,
			LocationID:    hold.LocationID,
			ExcludeHoldID: hold.ID,
		}
		free, err := s.Conflict.IsIntervalFree(ctx, scope, svc.StartAt, svc.BlockedUntil)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, models.NewConflictError("the held time is no longer available")
		}
	}

	hold, err = s.Holds.ConsumeHold(ctx, holdID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &models.Booking{
		ID:           uuid.NewString(),
		ProviderID:   hold.ProviderID,
		CustomerID:   customerID,
		Status:       models.BookingStatusConfirmed,
		Services:     servicesFromHold(hold),
		LocationType: hold.LocationType,
		LocationID:   hold.LocationID,
		Address:      hold.Address,
		HoldID:       hold.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, svc := range booking.Services {
		booking.TotalPrice += svc.Price
	}

	if err := s.Bookings.CreateBooking(ctx, booking); err != nil {
		// The hold is already consumed; surfacing the error is all we can do.
		utils.GetLogger().Error("Booking insert failed after hold was consumed",
			zap.String("hold_id", holdID), zap.Error(err))
		return nil, err
	}

	utils.GetLogger().Info("Booking finalized from hold",
		zap.String("booking_id", booking.ID),
		zap.String("hold_id", holdID))
	s.notify(ctx, notification.Intent{
		Type:        notification.TypeBookingConfirmed,
		RecipientID: customerID,
		ProviderID:  booking.ProviderID,
		BookingID:   booking.ID,
		Message:     "Your booking is confirmed",
	})
	return booking, nil
}

func servicesFromHold(hold *models.BookingHold) []models.BookingService {
	services := make([]models.BookingService, 0, len(hold.Services))
	for _, svc := range hold.Services {
		services = append(services, models.BookingService{
			OfferingID:       svc.OfferingID,
			StaffID:          svc.StaffID,
			ScheduledStartAt: svc.StartAt,
			ScheduledEndAt:   svc.EndAt,
			BlockedUntil:     svc.BlockedUntil,
			DurationMinutes:  svc.DurationMinutes,
			BufferMinutes:    svc.BufferMinutes,
			Price:            svc.Price,
		})
	}
	return services
}

// RescheduleBooking lays the booking's services out again from the new start,
// checking each moved interval against everyone but the booking itself.
func (s *DefaultBookingService) RescheduleBooking(ctx context.Context, bookingID string, newStartAt time.Time) (*models.Booking, error) {
	booking, err := s.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, models.NewNotFoundError("booking %s not found", bookingID)
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, models.NewValidationError("only confirmed bookings can be rescheduled")
	}
	if newStartAt.Before(s.now()) {
		return nil, models.NewValidationError("new start time is in the past")
	}

	moved := make([]models.BookingService, len(booking.Services))
	cursor := newStartAt
	for i, svc := range booking.Services {
		end := cursor.Add(time.Duration(svc.DurationMinutes) * time.Minute)
		blocked := end.Add(time.Duration(svc.BufferMinutes) * time.Minute)
		moved[i] = svc
		moved[i].ScheduledStartAt = cursor
		moved[i].ScheduledEndAt = end
		moved[i].BlockedUntil = blocked
		cursor = blocked
	}

	for _, svc := range moved {
		scope := availability.ConflictScope{
			ProviderID:       booking.ProviderID,
			StaffID:          svc.StaffID,
			LocationID:       booking.LocationID,
			ExcludeBookingID: booking.ID,
		}
		free, err := s.Conflict.IsIntervalFree(ctx, scope, svc.ScheduledStartAt, svc.BlockedUntil)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, models.NewConflictError("the new time is not available")
		}
	}

	if err := s.Bookings.UpdateBookingServices(ctx, bookingID, moved); err != nil {
		return nil, err
	}
	booking.Services = moved
	booking.UpdatedAt = s.now()

	s.notify(ctx, notification.Intent{
		Type:        notification.TypeBookingMoved,
		RecipientID: booking.CustomerID,
		ProviderID:  booking.ProviderID,
		BookingID:   booking.ID,
		Message:     "Your booking was rescheduled",
	})
	return booking, nil
}

// CancelBooking flips confirmed → cancelled. A booking that is already
// cancelled is left alone.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	flipped, err := s.Bookings.UpdateBookingStatus(ctx, bookingID, models.BookingStatusConfirmed, models.BookingStatusCancelled)
	if err != nil {
		return err
	}
	if !flipped {
		booking, err := s.Bookings.GetBookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return models.NewNotFoundError("booking %s not found", bookingID)
		}
		if booking.Status == models.BookingStatusCancelled {
			return nil
		}
		return models.NewValidationError("booking %s cannot be cancelled from status %s", bookingID, booking.Status)
	}

	booking, err := s.Bookings.GetBookingByID(ctx, bookingID)
	if err == nil && booking != nil {
		s.notify(ctx, notification.Intent{
			Type:        notification.TypeBookingCancelled,
			RecipientID: booking.CustomerID,
			ProviderID:  booking.ProviderID,
			BookingID:   booking.ID,
			Message:     "Your booking was cancelled",
		})
	}
	return nil
}
