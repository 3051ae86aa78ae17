package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"camera-status-bot/handlers"
	"camera-status-bot/models"
	"camera-status-bot/services"
	"camera-status-bot/utils"
	"camera-status-bot/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatal("❌ invalid configuration: ", err)
	}

	app := fiber.New()

	// CORS for the GUI. Origins come from the environment, comma-separated.
	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Service-Token, X-Line-Signature",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatal("❌ failed to initialize document store: ", err)
	}
	log.Printf("✅ Document store: %s", cfg.StoreBackend)

	reader, err := utils.NewNFTReader(cfg.RPCURL, cfg.ContractAddress, cfg.IPFSGateway)
	if err != nil {
		log.Fatal("❌ failed to initialize chain reader: ", err)
	}
	defer reader.Close()

	lineClient, err := linebot.New(cfg.LineChannelSecret, cfg.LineChannelToken)
	if err != nil {
		log.Fatal("❌ failed to initialize LINE client: ", err)
	}

	// Cycle audit trail is optional; without DATABASE_URL the service runs
	// against the remote document alone.
	var history *services.HistoryService
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatal("❌ failed to connect to database: ", err)
		}
		if err := db.AutoMigrate(&models.CycleRecord{}); err != nil {
			log.Fatal("❌ failed to migrate database: ", err)
		}
		history = services.NewHistoryService(db)
		log.Println("✅ Cycle audit trail enabled")
	}

	clock := clockwork.NewRealClock()
	reconciler := services.NewReconciler(clock)
	chainSync := services.NewChainSyncService(reader)
	statusService := services.NewStatusService(store, chainSync, reconciler, history)
	notifier := services.NewNotifier(lineClient, cfg.LineNotifyTo, clock)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workers.PollStatus(ctx, statusService, cfg.PollingInterval)

	sched, err := services.StartBoundaryScheduler(ctx, statusService, notifier, clock)
	if err != nil {
		log.Fatal("❌ failed to start boundary scheduler: ", err)
	}
	defer func() { _ = sched.Shutdown() }()

	handlers.SetupStatusRoutes(app, statusService, history, cfg)
	handlers.SetupWebhookRoutes(app, statusService, notifier, cfg.LineChannelSecret)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Status polling running (every %s)", cfg.PollingInterval)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}

func buildStore(cfg *utils.Config) (services.DocumentStore, error) {
	switch cfg.StoreBackend {
	case utils.StoreGist:
		return services.NewGistStore(cfg.GistID, cfg.GistFileName, cfg.GistToken), nil
	case utils.StoreJSONBin:
		return services.NewJSONBinStore(cfg.JSONBinURL, cfg.JSONBinAPIKey), nil
	case utils.StoreR2:
		return services.NewR2Store(context.Background(),
			cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2AccessKeySecret, cfg.R2Bucket, cfg.BotName)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
