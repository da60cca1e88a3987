package service

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// FeedMessage is what live subscribers (the web UI over websocket) see
// whenever something lands in the store. Delivery is best-effort.
type FeedMessage struct {
	Type      string      `json:"type"`
	SessionId uuid.UUID   `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

const (
	FeedSessionCreated   = "session_created"
	FeedSessionCompleted = "session_completed"
	FeedEventLogged      = "event_logged"
	FeedSnapshotCreated  = "snapshot_created"
)

type IFeedPublisherService interface {
	Publish(msgType string, sessionId uuid.UUID, data interface{})
}

type feedPublisherService struct {
	topic     string
	publisher message.Publisher
}

func NewFeedPublisherService(topic string, publisher message.Publisher) IFeedPublisherService {
	return &feedPublisherService{
		topic:     topic,
		publisher: publisher,
	}
}

// Publish is fire-and-forget: a feed failure must never fail the store
// operation that triggered it.
func (s *feedPublisherService) Publish(msgType string, sessionId uuid.UUID, data interface{}) {
	payload, err := json.Marshal(FeedMessage{
		Type:      msgType,
		SessionId: sessionId,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	_ = s.publisher.Publish(s.topic, msg)
}

// NoopFeedPublisher is used by the CLI and by tests, where nothing is
// listening.
type NoopFeedPublisher struct{}

func (NoopFeedPublisher) Publish(string, uuid.UUID, interface{}) {}
