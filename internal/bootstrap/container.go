package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-teacher-be/internal/config"
	"ai-teacher-be/internal/controller"
	"ai-teacher-be/internal/pkg/logger"
	"ai-teacher-be/internal/pkg/serverutils"
	"ai-teacher-be/internal/repository/unitofwork"
	"ai-teacher-be/internal/service"
	"ai-teacher-be/pkg/cache"
	"ai-teacher-be/pkg/llm/openai"
	pktNats "ai-teacher-be/pkg/nats"
	"ai-teacher-be/pkg/rag/audit"
	"ai-teacher-be/pkg/rag/guardrail"
	"ai-teacher-be/pkg/rag/intent"
	"ai-teacher-be/pkg/rag/retrieval"
	"ai-teacher-be/pkg/rag/summary"
	"ai-teacher-be/pkg/rag/synthesis"
	"ai-teacher-be/pkg/vectorsearch"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	ReviewController controller.IReviewController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for graceful shutdown
	Logger        logger.ILogger
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditTrail := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	stdLog := log.Default()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	var eventPublisher audit.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Cache runs degraded", err)
	}
	cacheFacade := cache.NewFacade(cache.NewRedisStore(rdb, stdLog))

	// 3. Outbound Providers
	llmProvider := openai.NewProvider(
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.ChatModel,
	)
	searcher := vectorsearch.NewClient(cfg.Ai.RagSearchURL)

	// 4. Answer Pipeline
	guard := guardrail.NewValidator(cfg.Pipeline.MaxQuestionLength, stdLog)
	analyzer := intent.NewAnalyzer(llmProvider, cacheFacade, cfg.Ai.UtilityModel, stdLog)
	retriever := retrieval.NewOrchestrator(searcher, cacheFacade, cfg.Pipeline.SimilarityThreshold, cfg.Pipeline.RetrievalTopK, stdLog)
	synthesizer := synthesis.NewSynthesizer(llmProvider, cacheFacade, cfg.Ai.ChatModel, stdLog)
	recorder := audit.NewRecorder(auditTrail, eventPublisher)
	folder := summary.NewFolder(llmProvider, cfg.Ai.UtilityModel)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.SummaryTopic)
	chatService := service.NewChatService(
		uowFactory,
		guard,
		analyzer,
		retriever,
		synthesizer,
		recorder,
		publisherService,
		sysLogger,
	)
	reviewService := service.NewReviewService(uowFactory, eventPublisher, sysLogger)
	consumerService := service.NewSummaryConsumerService(pubSub, cfg.App.SummaryTopic, uowFactory, folder)

	// 6. Controllers
	rateLimiter := serverutils.NewRateLimiter(cfg.Pipeline.RatePerMinute, time.Minute)
	chatController := controller.NewChatController(chatService, rateLimiter)
	reviewController := controller.NewReviewController(reviewService)

	return &Container{
		ChatController:   chatController,
		ReviewController: reviewController,
		ConsumerService:  consumerService,
		Logger:           sysLogger,
		NatsPublisher:    natsPub,
	}
}
