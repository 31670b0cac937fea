package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/api/dto"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/auth"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/service"
	apperrors "github.com/AmmarQasmi/TripVerse-Backend-sub000/pkg/util"
)

// BookingsHandler manages the trip transitions renters drive.
type BookingsHandler struct {
	service *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{service: bookingService}
}

// StartTrip PATCH /bookings/:id/start.
func (h *BookingsHandler) StartTrip(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("user required")
	}
	booking, err := h.service.StartTrip(c.Context(), principal.Account.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromBooking(booking)})
}

// CompleteTrip PATCH /bookings/:id/complete.
func (h *BookingsHandler) CompleteTrip(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("user required")
	}
	booking, err := h.service.CompleteTrip(c.Context(), principal.Account.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromBooking(booking)})
}
