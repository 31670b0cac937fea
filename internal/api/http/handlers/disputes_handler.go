package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/api/dto"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/auth"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/service"
	apperrors "github.com/AmmarQasmi/TripVerse-Backend-sub000/pkg/util"
)

// DisputesHandler manages end-user dispute endpoints.
type DisputesHandler struct {
	service *service.DisputeService
}

// NewDisputesHandler constructs handler.
func NewDisputesHandler(disputeService *service.DisputeService) *DisputesHandler {
	return &DisputesHandler{service: disputeService}
}

// CreateDispute POST /disputes.
func (h *DisputesHandler) CreateDispute(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateDisputeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.BookingID == "" || req.Subject == "" {
		return apperrors.NewValidationError("booking_id and subject required", nil)
	}

	dispute, err := h.service.Create(c.Context(), principal.Account.ID, service.DisputeCreateInput{
		BookingID:   req.BookingID,
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromDispute(dispute)})
}

// ListDisputes GET /disputes.
func (h *DisputesHandler) ListDisputes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	disputes, err := h.service.ListForUser(c.Context(), principal.Account.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.DisputeResponse, 0, len(disputes))
	for i := range disputes {
		items = append(items, dto.FromDispute(&disputes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
