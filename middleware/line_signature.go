// middleware/line_signature.go
package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// LineSignatureMiddleware verifies the X-Line-Signature HMAC on webhook
// deliveries before any event is processed.
func LineSignatureMiddleware(channelSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Line-Signature")
		if signature == "" {
			log.Printf("🚫 [LINE_AUTH] Missing X-Line-Signature for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "line signature missing",
			})
		}
		if !webhook.ValidateSignature(channelSecret, signature, c.Body()) {
			log.Printf("❌ [LINE_AUTH] Invalid X-Line-Signature for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid line signature",
			})
		}
		return c.Next()
	}
}
