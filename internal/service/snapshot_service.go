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

type ISnapshotService interface {
	Create(ctx context.Context, req *dto.CreateSnapshotRequest) (*dto.SnapshotResponse, error)
	List(ctx context.Context, limit int) ([]*dto.SnapshotResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SnapshotResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type snapshotService struct {
	snapshots contract.SnapshotRepository
	sessions  contract.SessionRepository
	events    contract.EventRepository
	publisher IFeedPublisherService
}

func NewSnapshotService(
	snapshots contract.SnapshotRepository,
	sessions contract.SessionRepository,
	events contract.EventRepository,
	publisher IFeedPublisherService,
) ISnapshotService {
	return &snapshotService{
		snapshots: snapshots,
		sessions:  sessions,
		events:    events,
		publisher: publisher,
	}
}

// Create denormalizes a session into a self-contained snapshot. The
// snapshot keeps its own copy of the query, chunks, answer and cost so it
// survives deletion of the source session.
func (s *snapshotService) Create(ctx context.Context, req *dto.CreateSnapshotRequest) (*dto.SnapshotResponse, error) {
	session, err := s.sessions.FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("session %s not found", req.SessionId)
	}

	partition, err := s.events.GetPartition(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	chunks := []entity.RetrievedChunk{}
	if partition.Retrieval != nil {
		chunks = partition.Retrieval.Chunks
	}

	answer := ""
	var model *string
	if partition.Generation != nil {
		answer = partition.Generation.Response
		m := partition.Generation.Model
		model = &m
	}

	totalCost := 0.0
	if session.TotalCost != nil {
		totalCost = *session.TotalCost
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	sessionId := session.Id
	snapshot := entity.Snapshot{
		Id:        uuid.New(),
		SessionId: &sessionId,
		Query:     session.Query,
		Chunks:    chunks,
		Answer:    answer,
		Cost:      totalCost,
		Timestamp: time.Now().UTC(),
		Tags:      tags,
		Model:     model,
	}

	if err := s.snapshots.Create(ctx, &snapshot); err != nil {
		return nil, err
	}

	s.publisher.Publish(FeedSnapshotCreated, sessionId, map[string]string{"snapshot_id": snapshot.Id.String()})
	return snapshotToResponse(&snapshot), nil
}

func (s *snapshotService) List(ctx context.Context, limit int) ([]*dto.SnapshotResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	snapshots, err := s.snapshots.FindAll(ctx,
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SnapshotResponse, len(snapshots))
	for i, snapshot := range snapshots {
		result[i] = snapshotToResponse(snapshot)
	}
	return result, nil
}

func (s *snapshotService) Get(ctx context.Context, id uuid.UUID) (*dto.SnapshotResponse, error) {
	snapshot, err := s.snapshots.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, apperror.NotFound("snapshot %s not found", id)
	}
	return snapshotToResponse(snapshot), nil
}

func (s *snapshotService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.snapshots.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("snapshot %s not found", id)
	}
	return nil
}
