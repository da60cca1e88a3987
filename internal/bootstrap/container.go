package bootstrap

import (
	"context"
	"log"

	"rag-debugger-be/internal/config"
	"rag-debugger-be/internal/controller"
	"rag-debugger-be/internal/handler"
	"rag-debugger-be/internal/pkg/logger"
	"rag-debugger-be/internal/repository/implementation"
	"rag-debugger-be/internal/repository/memory"
	"rag-debugger-be/internal/service"
	"rag-debugger-be/internal/websocket"
	"rag-debugger-be/pkg/cost"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController  controller.ISessionController
	CaptureController  controller.ICaptureController
	SnapshotController controller.ISnapshotController

	// WebSockets & Feed
	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/feed.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	feedHandler := handler.NewFeedHandler(wsHub, wsLogger)
	if err := feedHandler.Pump(context.Background(), pubSub, cfg.App.FeedTopic); err != nil {
		log.Printf("[WARN] Failed to start feed pump: %v", err)
	}

	// 3. Repositories
	sessionRepo := implementation.NewSessionRepository(db)
	eventRepo := implementation.NewEventRepository(db)
	snapshotRepo := implementation.NewSnapshotRepository(db)
	captureRegistry := memory.NewCaptureRepository()

	// 4. Services
	calc := cost.NewCalculator()
	feedPublisher := service.NewFeedPublisherService(cfg.App.FeedTopic, pubSub)

	sessionService := service.NewSessionService(sessionRepo, eventRepo, feedPublisher)
	captureService := service.NewCaptureService(sessionRepo, eventRepo, captureRegistry, calc, feedPublisher)
	snapshotService := service.NewSnapshotService(snapshotRepo, sessionRepo, eventRepo, feedPublisher)
	compareService := service.NewCompareService(snapshotRepo)

	// 5. Controllers
	return &Container{
		SessionController:  controller.NewSessionController(sessionService),
		CaptureController:  controller.NewCaptureController(captureService),
		SnapshotController: controller.NewSnapshotController(snapshotService, compareService),

		FeedHandler:  feedHandler,
		WebSocketHub: wsHub,
		Logger:       sysLogger,
	}
}
