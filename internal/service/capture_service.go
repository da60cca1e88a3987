package service

import (
	"context"

	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/repository/contract"
	"rag-debugger-be/internal/repository/memory"
	"rag-debugger-be/pkg/capture"
	"rag-debugger-be/pkg/cost"

	"github.com/google/uuid"
)

// ICaptureService drives the in-flight aggregation lifecycle: start opens
// a session row plus a registry entry, the three capture calls feed the
// aggregator, finish flushes events and totals into the store.
type ICaptureService interface {
	Start(ctx context.Context, req *dto.StartCaptureRequest) (*dto.StartCaptureResponse, error)
	CaptureRetrieval(ctx context.Context, sessionId uuid.UUID, req *dto.CaptureRetrievalRequest) (*dto.CaptureStateResponse, error)
	CapturePrompt(ctx context.Context, sessionId uuid.UUID, req *dto.CapturePromptRequest) (*dto.CaptureStateResponse, error)
	CaptureGeneration(ctx context.Context, sessionId uuid.UUID, req *dto.CaptureGenerationRequest) (*dto.CaptureStateResponse, error)
	Finish(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error)
}

type captureService struct {
	sessions  contract.SessionRepository
	events    contract.EventRepository
	registry  *memory.CaptureRepository
	calc      *cost.Calculator
	publisher IFeedPublisherService
}

func NewCaptureService(
	sessions contract.SessionRepository,
	events contract.EventRepository,
	registry *memory.CaptureRepository,
	calc *cost.Calculator,
	publisher IFeedPublisherService,
) ICaptureService {
	return &captureService{
		sessions:  sessions,
		events:    events,
		registry:  registry,
		calc:      calc,
		publisher: publisher,
	}
}

func (s *captureService) Start(ctx context.Context, req *dto.StartCaptureRequest) (*dto.StartCaptureResponse, error) {
	session := capture.NewSession(uuid.New(), req.Query, s.calc)

	row := entity.Session{
		Id:        session.SessionId,
		Query:     session.Query,
		CreatedAt: session.CreatedAt,
	}
	if err := s.sessions.Create(ctx, &row); err != nil {
		return nil, err
	}

	s.registry.Save(session)
	s.publisher.Publish(FeedSessionCreated, session.SessionId, nil)

	return &dto.StartCaptureResponse{SessionId: session.SessionId}, nil
}

func (s *captureService) inFlight(sessionId uuid.UUID) (*capture.Session, error) {
	session, ok := s.registry.Get(sessionId)
	if !ok {
		return nil, apperror.NotFound("no capture in progress for session %s", sessionId)
	}
	return session, nil
}

func (s *captureService) CaptureRetrieval(ctx context.Context, sessionId uuid.UUID, req *dto.CaptureRetrievalRequest) (*dto.CaptureStateResponse, error) {
	session, err := s.inFlight(sessionId)
	if err != nil {
		return nil, err
	}

	documents := make([]capture.Document, len(req.Documents))
	for i, d := range req.Documents {
		documents[i] = payloadToDocument(d)
	}

	session.CaptureRetrieval(documents, req.DurationMs, req.EmbeddingModel)
	s.registry.Save(session)

	return stateResponse(session), nil
}

func (s *captureService) CapturePrompt(ctx context.Context, sessionId uuid.UUID, req *dto.CapturePromptRequest) (*dto.CaptureStateResponse, error) {
	session, err := s.inFlight(sessionId)
	if err != nil {
		return nil, err
	}

	session.CapturePrompt(req.Prompt, req.Model, req.TemplateName)
	s.registry.Save(session)

	return stateResponse(session), nil
}

func (s *captureService) CaptureGeneration(ctx context.Context, sessionId uuid.UUID, req *dto.CaptureGenerationRequest) (*dto.CaptureStateResponse, error) {
	session, err := s.inFlight(sessionId)
	if err != nil {
		return nil, err
	}

	session.CaptureGeneration(req.Response, req.Model, req.InputTokens, req.OutputTokens, req.DurationMs, req.Temperature)
	s.registry.Save(session)

	return stateResponse(session), nil
}

// Finish flushes the aggregated phases into the store, seals the session
// row with its totals and drops the registry entry. Finishing twice is a
// not-found on the second call.
func (s *captureService) Finish(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.inFlight(sessionId)
	if err != nil {
		return nil, err
	}

	events, err := session.FlushEvents()
	if err != nil {
		return nil, apperror.Storage(err)
	}
	for _, event := range events {
		if err := s.events.Create(ctx, event); err != nil {
			return nil, err
		}
	}

	final := session.Finalize()
	update := contract.SessionUpdate{
		CompletedAt:     final.CompletedAt,
		TotalCost:       final.TotalCost,
		TotalDurationMs: final.TotalDurationMs,
		Model:           final.Model,
	}
	if _, err := s.sessions.Update(ctx, sessionId, update); err != nil {
		return nil, err
	}

	s.registry.Delete(sessionId)
	s.publisher.Publish(FeedSessionCompleted, sessionId, map[string]float64{"total_cost": *final.TotalCost})

	return sessionToResponse(&final), nil
}

func payloadToDocument(p dto.DocumentPayload) capture.Document {
	switch p.Kind {
	case "structured":
		return capture.StructuredDoc{Text: p.Text, Metadata: p.Metadata}
	case "mapping":
		return capture.MappingDoc{Fields: p.Fields}
	default:
		return capture.PlainText(p.Value)
	}
}

func stateResponse(session *capture.Session) *dto.CaptureStateResponse {
	return &dto.CaptureStateResponse{
		SessionId:     session.SessionId,
		Query:         session.Query,
		HasRetrieval:  session.Retrieval() != nil,
		HasPrompt:     session.Prompt() != nil,
		HasGeneration: session.Generation() != nil,
		TotalCost:     session.TotalCost(),
		TotalDuration: session.TotalDuration(),
	}
}
