// handlers/status.go
package handlers

import (
	"log"

	"camera-status-bot/middleware"
	"camera-status-bot/models"
	"camera-status-bot/services"
	"camera-status-bot/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupStatusRoutes mounts the GUI-facing API. Every request works against a
// fresh copy of the remote document; nothing is cached across requests.
func SetupStatusRoutes(app *fiber.App, status *services.StatusService, history *services.HistoryService, cfg *utils.Config) {
	api := app.Group("/api", middleware.ServiceAuthMiddleware(cfg.APIServiceToken))

	// GET /api/status — read + reconcile + conditional write + return.
	api.Get("/status", func(c *fiber.Ctx) error {
		doc, _, err := status.RunCycle(c.UserContext(), services.SourceAPI)
		if err != nil {
			log.Printf("❌ /api/status GET error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch status",
				"cause": err.Error(),
			})
		}
		return c.JSON(doc)
	})

	// POST /api/status — GUI correction: validate, reconcile with the
	// force-override flag, write, return.
	api.Post("/status", func(c *fiber.Ctx) error {
		var body struct {
			Wallets       []models.Wallet `json:"wallets"`
			ForceOverride bool            `json:"forceOverride"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON body",
				"cause": err.Error(),
			})
		}

		doc := &models.Document{Wallets: body.Wallets}
		if err := doc.Validate(); err != nil {
			log.Printf("⚠️ /api/status POST schema validation failed: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid document format",
				"cause": err.Error(),
			})
		}

		saved, err := status.ApplyManualUpdate(c.UserContext(), doc, body.ForceOverride)
		if err != nil {
			log.Printf("❌ /api/status POST error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save status",
				"cause": err.Error(),
			})
		}
		return c.JSON(saved)
	})

	// GET /api/config — bot config plus the display order the GUI renders in.
	api.Get("/config", func(c *fiber.Ctx) error {
		doc, err := status.Store.Load(c.UserContext())
		if err != nil {
			log.Printf("❌ /api/config error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "cannot read config",
			})
		}
		services.NormalizeDocument(doc)
		return c.JSON(fiber.Map{
			"pollingIntervalMs": cfg.PollingInterval.Milliseconds(),
			"contractAddress":   cfg.ContractAddress,
			"walletOrder":       status.DisplayOrder(doc),
		})
	})

	// GET /api/history — cycle audit rows, empty without a database.
	api.Get("/history", func(c *fiber.Ctx) error {
		rows, err := history.Recent(50)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch history",
				"cause": err.Error(),
			})
		}
		if rows == nil {
			rows = []models.CycleRecord{}
		}
		return c.JSON(fiber.Map{"cycles": rows})
	})
}
