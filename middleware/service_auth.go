// middleware/service_auth.go
package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// ServiceAuthMiddleware gates the GUI API behind a shared X-Service-Token.
// With an empty expected token the gate is open — the original deployment ran
// the GUI API unauthenticated behind a trusted frontend.
func ServiceAuthMiddleware(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			return c.Next()
		}

		token := c.Get("X-Service-Token")
		if token == "" {
			log.Printf("🚫 [SERVICE_AUTH] Missing X-Service-Token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "service token missing",
			})
		}
		if token != expectedToken {
			log.Printf("❌ [SERVICE_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid service token",
			})
		}
		return c.Next()
	}
}
