package bootstrap

import (
	"context"
	"log"

	"ai-supportchat-be/internal/config"
	"ai-supportchat-be/internal/controller"
	"ai-supportchat-be/internal/pkg/logger"
	"ai-supportchat-be/internal/pkg/serverutils"
	"ai-supportchat-be/internal/repository/memory"
	"ai-supportchat-be/internal/repository/unitofwork"
	"ai-supportchat-be/internal/service"
	"ai-supportchat-be/pkg/events"
	"ai-supportchat-be/pkg/llm/factory"
	pktNats "ai-supportchat-be/pkg/nats"
	"ai-supportchat-be/pkg/usage"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	AuthController controller.IAuthController
	ChatController controller.IChatController
	AuthMiddleware fiber.Handler
	Logger         logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	accountCache := memory.NewAccountCache()

	// Generation gateway
	llmProvider, err := factory.NewLLMProvider(
		cfg.Llm.Provider,
		cfg.Llm.Model,
		cfg.Llm.OllamaBaseURL,
		cfg.Llm.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Llm.Provider, cfg.Llm.Model)

	// Event relay. A failed connection is surfaced per request as
	// RelayUnavailable rather than crashing startup.
	var relay events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	} else {
		relay = natsPub
	}

	// Redis-backed usage counters
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	limiter := usage.NewLimiter(rdb, cfg.Usage.DailyMessageLimit)

	// Services
	authService := service.NewAuthService(uowFactory, accountCache, cfg)
	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		relay,
		limiter,
		sysLogger,
		cfg.Llm.RequestTimeout,
		cfg.Llm.RelayTimeout,
	)

	return &Container{
		AuthController: controller.NewAuthController(authService),
		ChatController: controller.NewChatController(chatService),
		AuthMiddleware: serverutils.AuthMiddleware(authService),
		Logger:         sysLogger,
	}
}
