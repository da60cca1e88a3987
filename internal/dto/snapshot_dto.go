package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSnapshotRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Tags      []string  `json:"tags"`
}

type SnapshotResponse struct {
	Id        uuid.UUID               `json:"id"`
	SessionId *uuid.UUID              `json:"session_id"`
	Query     string                  `json:"query"`
	Chunks    []RetrievedChunkPayload `json:"chunks"`
	Answer    string                  `json:"answer"`
	Cost      float64                 `json:"cost"`
	Timestamp time.Time               `json:"timestamp"`
	Tags      []string                `json:"tags"`
	Model     *string                 `json:"model"`
}

type ListSnapshotsRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type RetrievalDiffResponse struct {
	Added           []string `json:"added"`
	Removed         []string `json:"removed"`
	Unchanged       []string `json:"unchanged"`
	SimilarityScore float64  `json:"similarity_score"`
}

type AnswerDiffResponse struct {
	DiffLines       []string `json:"diff_lines"`
	SimilarityScore float64  `json:"similarity_score"`
	LengthOld       int      `json:"length_old"`
	LengthNew       int      `json:"length_new"`
}

type CostDiffResponse struct {
	OldCost       float64 `json:"old_cost"`
	NewCost       float64 `json:"new_cost"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"percent_change"`
}

type ComparisonResponse struct {
	Snapshot1Id   uuid.UUID             `json:"snapshot1_id"`
	Snapshot2Id   uuid.UUID             `json:"snapshot2_id"`
	QuerySame     bool                  `json:"query_same"`
	RetrievalDiff RetrievalDiffResponse `json:"retrieval_diff"`
	AnswerDiff    AnswerDiffResponse    `json:"answer_diff"`
	CostDiff      CostDiffResponse      `json:"cost_diff"`
	Timestamp     time.Time             `json:"timestamp"`
}
