package handlers

import (
	"strings"

	applog "stitchmart/internal/log"
	"stitchmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth gates cart and order routes behind the bearer credential.
// A missing credential is 401; a present but invalid or expired one is
// 403. On success the identity lands in c.Locals("identity").
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := ""
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if token == "" {
			token = c.Cookies("token")
		}
		if token == "" {
			applog.Security(c, "auth.token.missing", nil)
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		tu, err := auth.Verify(token)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return c.SendStatus(fiber.StatusForbidden)
		}
		c.Locals("identity", tu)
		return c.Next()
	}
}

func identity(c *fiber.Ctx) services.TokenUser {
	tu, _ := c.Locals("identity").(services.TokenUser)
	return tu
}
