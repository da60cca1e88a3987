package service

import (
	"context"
	"time"

	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/repository/contract"
	"rag-debugger-be/internal/repository/specification"

	"github.com/google/uuid"
)

const defaultListLimit = 10

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	List(ctx context.Context, limit, offset int) ([]*dto.SessionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SessionDetailResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetLatestId(ctx context.Context) (*dto.LatestSessionResponse, error)
	CostBreakdown(ctx context.Context, id uuid.UUID) (*dto.CostBreakdownResponse, error)
	LogEvent(ctx context.Context, sessionId uuid.UUID, req *dto.LogEventRequest) (*dto.StoredEventResponse, error)
}

type sessionService struct {
	sessions  contract.SessionRepository
	events    contract.EventRepository
	publisher IFeedPublisherService
}

func NewSessionService(
	sessions contract.SessionRepository,
	events contract.EventRepository,
	publisher IFeedPublisherService,
) ISessionService {
	return &sessionService{
		sessions:  sessions,
		events:    events,
		publisher: publisher,
	}
}

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	session := entity.Session{
		Id:        uuid.New(),
		Query:     req.Query,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		return nil, err
	}

	s.publisher.Publish(FeedSessionCreated, session.Id, nil)
	return sessionToResponse(&session), nil
}

func (s *sessionService) List(ctx context.Context, limit, offset int) ([]*dto.SessionResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	sessions, err := s.sessions.FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		result[i] = sessionToResponse(session)
	}
	return result, nil
}

// Show assembles the full read view: session row, three-slot event
// partition and a cost breakdown recomputed from the stored events. The
// session's cached total is never used here.
func (s *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.SessionDetailResponse, error) {
	detail, err := s.detail(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.SessionDetailResponse{
		Session:       *sessionToResponse(&detail.Session),
		Retrieval:     retrievalToResponse(detail.Retrieval),
		Prompt:        promptToResponse(detail.Prompt),
		Generation:    generationToResponse(detail.Generation),
		CostBreakdown: costBreakdownToResponse(detail.CostBreakdown),
	}, nil
}

func (s *sessionService) detail(ctx context.Context, id uuid.UUID) (*entity.SessionDetail, error) {
	session, err := s.sessions.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session %s not found", id)
	}

	partition, err := s.events.GetPartition(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entity.SessionDetail{
		Session:       *session,
		Retrieval:     partition.Retrieval,
		Prompt:        partition.Prompt,
		Generation:    partition.Generation,
		CostBreakdown: breakdownFromPartition(id, partition),
	}, nil
}

// breakdownFromPartition derives the cost breakdown from stored events.
// The generation event's total is split into input/output proportionally
// to token counts, or 50/50 when the counts are absent or sum to zero.
// Total is the exact sum of the three components.
func breakdownFromPartition(sessionId uuid.UUID, partition *entity.EventPartition) entity.CostBreakdown {
	breakdown := entity.CostBreakdown{SessionId: sessionId}

	if partition.Retrieval != nil {
		breakdown.EmbeddingCost = partition.Retrieval.EmbeddingCost
	}

	if gen := partition.Generation; gen != nil {
		totalTokens := gen.InputTokens + gen.OutputTokens
		if totalTokens > 0 {
			breakdown.InputCost = gen.Cost * float64(gen.InputTokens) / float64(totalTokens)
			breakdown.OutputCost = gen.Cost * float64(gen.OutputTokens) / float64(totalTokens)
		} else {
			breakdown.InputCost = gen.Cost / 2
			breakdown.OutputCost = gen.Cost / 2
		}
	}

	breakdown.TotalCost = breakdown.EmbeddingCost + breakdown.InputCost + breakdown.OutputCost
	return breakdown
}

func (s *sessionService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	update := contract.SessionUpdate{
		CompletedAt:     req.CompletedAt,
		TotalCost:       req.TotalCost,
		TotalDurationMs: req.TotalDurationMs,
		Model:           req.Model,
	}

	updated, err := s.sessions.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.NotFound("session %s not found", id)
	}

	session, err := s.sessions.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("session %s not found", id)
	}
	return nil
}

func (s *sessionService) GetLatestId(ctx context.Context) (*dto.LatestSessionResponse, error) {
	sessions, err := s.sessions.FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperror.NotFound("no sessions found")
	}
	return &dto.LatestSessionResponse{SessionId: sessions[0].Id}, nil
}

func (s *sessionService) CostBreakdown(ctx context.Context, id uuid.UUID) (*dto.CostBreakdownResponse, error) {
	detail, err := s.detail(ctx, id)
	if err != nil {
		return nil, err
	}
	response := costBreakdownToResponse(detail.CostBreakdown)
	return &response, nil
}

// LogEvent stores an externally captured event under an existing session.
// The event always takes the session id from the route, not the payload.
func (s *sessionService) LogEvent(ctx context.Context, sessionId uuid.UUID, req *dto.LogEventRequest) (*dto.StoredEventResponse, error) {
	session, err := s.sessions.FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session %s not found", sessionId)
	}

	timestamp := time.Now().UTC()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	event := entity.StoredEvent{
		Id:        uuid.New(),
		SessionId: sessionId,
		EventType: entity.EventType(req.EventType),
		Timestamp: timestamp,
		Data:      req.Data,
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return nil, err
	}

	s.publisher.Publish(FeedEventLogged, sessionId, map[string]string{"event_type": req.EventType})

	return &dto.StoredEventResponse{
		Id:        event.Id,
		SessionId: event.SessionId,
		EventType: string(event.EventType),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	}, nil
}
