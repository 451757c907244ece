package bootstrap

import (
	"context"
	"log"

	"veritus-be/internal/config"
	"veritus-be/internal/controller"
	"veritus-be/internal/pkg/logger"
	"veritus-be/internal/pkg/serverutils"
	"veritus-be/internal/repository/unitofwork"
	"veritus-be/internal/service"
	"veritus-be/internal/websocket"
	"veritus-be/pkg/embedding"
	"veritus-be/pkg/llm/factory"
	pktNats "veritus-be/pkg/nats"
	"veritus-be/pkg/rag/memory"
	"veritus-be/pkg/rag/prompt"
	"veritus-be/pkg/rag/response"
	"veritus-be/pkg/rag/retrieval"
	"veritus-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	SummaryController controller.ISummaryController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub  *websocket.Hub
	JwtMiddleware fiber.Handler
	Logger        logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	// 5. Pipeline stages
	streamer := response.NewStreamer(llmProvider, response.Options{
		Temperature:        cfg.Ai.Temperature,
		TopP:               cfg.Ai.TopP,
		MaxTokens:          cfg.Ai.MaxTokens,
		SummaryTemperature: cfg.Ai.SummaryTemperature,
		SummaryMaxTokens:   cfg.Ai.SummaryMaxTokens,
	}, sysLogger)

	summaryPublisher := service.NewSummaryEventPublisher(pubSub, cfg.Rag.SummaryTopicName)
	summaryMemory := memory.NewSummaryMemory(uowFactory, streamer, rdb, summaryPublisher, sysLogger)

	index := vectorindex.NewPgVectorIndex(uowFactory)
	retriever := retrieval.NewRetriever(embeddingProvider, index, retrieval.Config{
		TopK:            cfg.Rag.TopK,
		ContextSliceLen: cfg.Rag.ContextSliceChars,
	}, sysLogger)

	assembler := prompt.NewAssembler()

	// 6. Services
	chatService := service.NewChatService(summaryMemory, retriever, assembler, streamer, uowFactory, sysLogger)
	summaryService := service.NewSummaryService(streamer)
	consumerService := service.NewConsumerService(pubSub, cfg.Rag.SummaryTopicName, wsHub, natsPub, sysLogger)

	return &Container{
		ChatController:    controller.NewChatController(chatService, wsHub),
		SummaryController: controller.NewSummaryController(summaryService),
		ConsumerService:   consumerService,
		WebSocketHub:      wsHub,
		JwtMiddleware:     serverutils.NewJwtMiddleware(cfg.App.JWTSecret),
		Logger:            sysLogger,
	}
}
