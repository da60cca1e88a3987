package handler

import (
	"context"

	"rag-debugger-be/internal/pkg/logger"
	internalWS "rag-debugger-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedHandler bridges the in-process feed topic to websocket clients:
// every message published on the topic is broadcast to every connected
// client.
type FeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewFeedHandler(hub *internalWS.Hub, log logger.ILogger) *FeedHandler {
	return &FeedHandler{
		hub:    hub,
		logger: log,
	}
}

// Pump consumes the feed topic and forwards payloads to the hub. It runs
// in its own goroutine for the lifetime of the process.
func (h *FeedHandler) Pump(ctx context.Context, subscriber message.Subscriber, topic string) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			h.hub.Broadcast(msg.Payload)
			msg.Ack()
		}
		h.logger.Info("FeedHandler", "Feed subscription closed", nil)
	}()

	return nil
}

// ServeWs upgrades the connection and attaches it to the hub. The feed
// is read-only and unauthenticated; it only ever carries data already
// reachable through the HTTP API.
func (h *FeedHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("FeedHandler", "Starting feed session", nil)
			internalWS.ServeWs(h.hub, conn)
			h.logger.Info("FeedHandler", "Feed session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the feed websocket route.
func (h *FeedHandler) RegisterRoutes(router fiber.Router) {
	feed := router.Group("/feed")
	feed.Get("/ws", h.ServeWs)
}
