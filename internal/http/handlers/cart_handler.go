package handlers

import (
	"errors"
	"strings"

	"stitchmart/internal/domain"
	applog "stitchmart/internal/log"
	"stitchmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
	Auth *services.AuthService
}

// actingUser resolves the verified identity to the persisted user. The
// bearer credential, not the request body, decides whose cart is touched;
// a body email that disagrees is logged and ignored.
func (h *CartHandler) actingUser(c *fiber.Ctx, bodyEmail string) (*domain.User, error) {
	u, err := h.Auth.ResolveUser(identity(c))
	if err != nil {
		return nil, err
	}
	if bodyEmail != "" && !strings.EqualFold(bodyEmail, u.Email) {
		applog.Security(c, "cart.email.mismatch", map[string]any{"body_email": bodyEmail})
	}
	return u, nil
}

// POST /addtocart {email, productId, quantity, size}
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var body struct {
		Email     string `json:"email"`
		ProductID int64  `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	u, err := h.actingUser(c, body.Email)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "User not found!")
	}
	if err := h.Cart.Add(u.ID, body.ProductID, body.Quantity, body.Size); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found!")
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product_id": body.ProductID})
		return fail(c, fiber.StatusInternalServerError, "Error adding product to cart.")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product added to cart successfully!"})
}

// POST /removefromcart {email, productId}
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var body struct {
		Email     string `json:"email"`
		ProductID int64  `json:"productId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	u, err := h.actingUser(c, body.Email)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "User not found!")
	}
	if err := h.Cart.Remove(u.ID, body.ProductID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found in cart!")
		}
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product_id": body.ProductID})
		return fail(c, fiber.StatusInternalServerError, "Error removing product from cart!")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product removed from cart successfully!"})
}

// GET /cartdata
func (h *CartHandler) Data(c *fiber.Ctx) error {
	u, err := h.actingUser(c, "")
	if err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	items, err := h.Cart.Items(u.ID)
	if err != nil {
		applog.Error(c, "cart.data.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Error fetching cart data.")
	}
	return c.JSON(items)
}
