package handlers

import (
	"errors"
	"time"

	applog "stitchmart/internal/log"
	"stitchmart/internal/services"
	"stitchmart/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /signup {username,email,password}
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	email, ok := validate.Email(body.Email)
	if !ok || body.Username == "" || body.Password == "" {
		return fail(c, fiber.StatusBadRequest, "username, email and password are required")
	}

	token, err := h.Auth.SignUp(body.Username, email, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			applog.Security(c, "auth.signup.duplicate", map[string]any{"email": email})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "errors": "Email is already registered.",
			})
		}
		applog.Error(c, "auth.signup.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not create account")
	}
	applog.Audit(c, "auth.signup", map[string]any{"email": email})
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// POST /login {email,password}
//
// Bad credentials answer 200 with success:false, not an HTTP error; the
// storefront client branches on the payload.
func (h *AuthHandler) LogIn(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	token, u, err := h.Auth.LogIn(body.Email, body.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": body.Email})
		return c.JSON(fiber.Map{"success": false, "errors": "Wrong email or password!"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.Auth.TTL),
	})
	applog.Audit(c, "auth.login", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{"success": true, "token": token, "email": u.Email, "name": u.Name})
}
