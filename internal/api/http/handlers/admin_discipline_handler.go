package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/api/dto"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/service"
	apperrors "github.com/AmmarQasmi/TripVerse-Backend-sub000/pkg/util"
)

// AdminDisciplineHandler exposes the manual sanction surface.
type AdminDisciplineHandler struct {
	engine   *service.DisciplineService
	listings repository.ListingRepository
}

// NewAdminDisciplineHandler constructs handler.
func NewAdminDisciplineHandler(engine *service.DisciplineService, listings repository.ListingRepository) *AdminDisciplineHandler {
	return &AdminDisciplineHandler{engine: engine, listings: listings}
}

// ListSanctions GET /admin/drivers/:id/sanctions.
func (h *AdminDisciplineHandler) ListSanctions(c *fiber.Ctx) error {
	actions, err := h.engine.SanctionHistory(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.SanctionResponse, 0, len(actions))
	for i := range actions {
		items = append(items, dto.FromAction(&actions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListDriverListings GET /admin/drivers/:id/listings. Lets an admin
// confirm a sanctioned driver's vehicles are off the marketplace.
func (h *AdminDisciplineHandler) ListDriverListings(c *fiber.Ctx) error {
	listings, err := h.listings.ListByDriver(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ListingResponse, 0, len(listings))
	for i := range listings {
		items = append(items, dto.FromListing(&listings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SuspendDriver POST /admin/drivers/:id/suspend.
func (h *AdminDisciplineHandler) SuspendDriver(c *fiber.Ctx) error {
	var req dto.ManualSuspendRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	action, err := h.engine.ManualSuspend(c.Context(), c.Params("id"), req.Days, req.Reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromAction(action)})
}

// BanDriver POST /admin/drivers/:id/ban.
func (h *AdminDisciplineHandler) BanDriver(c *fiber.Ctx) error {
	var req dto.ManualBanRequest
	// The body is optional on bans.
	_ = c.BodyParser(&req)
	action, err := h.engine.ManualBan(c.Context(), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromAction(action)})
}

// ReinstateDriver POST /admin/drivers/:id/reinstate.
func (h *AdminDisciplineHandler) ReinstateDriver(c *fiber.Ctx) error {
	if err := h.engine.Reinstate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reinstated": true}})
}
