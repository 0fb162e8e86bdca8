package handlers

import (
	"errors"
	"strings"

	"stitchmart/internal/domain"
	applog "stitchmart/internal/log"
	"stitchmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
	Auth  *services.AuthService
}

// POST /placeorder {email, address, totalValue}
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var body struct {
		Email      string         `json:"email"`
		Address    domain.Address `json:"address"`
		TotalValue float64        `json:"totalValue"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	u, err := h.Auth.ResolveUser(identity(c))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "User not found!")
	}
	if body.Email != "" && !strings.EqualFold(body.Email, u.Email) {
		applog.Security(c, "order.email.mismatch", map[string]any{"body_email": body.Email})
	}

	orderID, serverTotal, err := h.Order.Place(u, body.Address, body.TotalValue)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return fail(c, fiber.StatusBadRequest, "Cart is empty!")
		}
		applog.Error(c, "order.place.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Error placing order.")
	}

	// The client total is the charge basis; the recomputed one only
	// feeds the audit trail for offline reconciliation.
	applog.Audit(c, "order.place", map[string]any{
		"order_id":     orderID,
		"client_total": body.TotalValue,
		"server_total": serverTotal,
		"mismatch":     body.TotalValue != serverTotal,
	})
	return c.JSON(fiber.Map{"success": true, "message": "Order placed successfully!", "orderId": orderID})
}

// GET /orders/:orderId
func (h *OrderHandler) View(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	view, owner, err := h.Order.View(orderID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Order not found!")
		}
		applog.Error(c, "order.view.fail", err, map[string]any{"order_id": orderID})
		return fail(c, fiber.StatusInternalServerError, "Error fetching order.")
	}

	// Only the order's owner may read it; outsiders get the same 404 as
	// a missing order.
	tu := identity(c)
	email := tu.Email
	if email == "" {
		if u, err := h.Auth.ResolveUser(tu); err == nil {
			email = u.Email
		}
	}
	if !strings.EqualFold(email, owner) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": orderID})
		return fail(c, fiber.StatusNotFound, "Order not found!")
	}
	return c.JSON(view)
}
