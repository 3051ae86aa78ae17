// handlers/webhook.go
package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"camera-status-bot/middleware"
	"camera-status-bot/services"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

const menuText = "「カメラ」または「status」と送ると撮影可能枚数を表示します📸"

// SetupWebhookRoutes mounts the LINE webhook. Signature validation runs before
// any event is touched; event handling is best effort — one failing event
// never blocks the rest of the batch, and LINE always gets a 200 back.
func SetupWebhookRoutes(app *fiber.App, status *services.StatusService, notifier *services.Notifier, channelSecret string) {
	app.Post("/webhook", middleware.LineSignatureMiddleware(channelSecret), func(c *fiber.Ctx) error {
		var payload struct {
			Events []*linebot.Event `json:"events"`
		}
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid webhook payload",
			})
		}

		for _, event := range payload.Events {
			if err := handleEvent(c, status, notifier, event); err != nil {
				log.Printf("❌ webhook event error: %v", err)
			}
		}
		return c.SendStatus(fiber.StatusOK)
	})
}

func handleEvent(c *fiber.Ctx, status *services.StatusService, notifier *services.Notifier, event *linebot.Event) error {
	ctx := c.UserContext()

	switch event.Type {
	case linebot.EventTypeMessage:
		msg, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			return nil
		}
		text := strings.TrimSpace(msg.Text)

		if strings.EqualFold(text, "status") || strings.Contains(text, "カメラ") {
			doc, _, err := status.RunCycle(ctx, services.SourceWebhook)
			if err != nil {
				return notifier.Reply(ctx, event.ReplyToken,
					linebot.NewTextMessage("ステータス取得に失敗しました。"))
			}
			flex := services.BuildFlexCarousel(doc, status.DisplayOrder(doc))
			return notifier.Reply(ctx, event.ReplyToken, flex)
		}
		return notifier.Reply(ctx, event.ReplyToken, linebot.NewTextMessage(menuText))

	case linebot.EventTypePostback:
		doc, _, err := status.RunCycle(ctx, services.SourceWebhook)
		if err != nil {
			return notifier.Reply(ctx, event.ReplyToken,
				linebot.NewTextMessage("ステータス取得に失敗しました。"))
		}
		summary := services.BuildStatusMessage(doc, status.DisplayOrder(doc))
		return notifier.Reply(ctx, event.ReplyToken, linebot.NewTextMessage(summary))

	default:
		return nil
	}
}
