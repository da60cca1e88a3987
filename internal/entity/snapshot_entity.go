package entity

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable frozen copy of a session's query, chunks,
// answer and cost, kept for later regression comparison. It owns copies
// of the data it captured: deleting the source session detaches the
// reference (SessionId becomes nil) but never touches the snapshot.
type Snapshot struct {
	Id        uuid.UUID
	SessionId *uuid.UUID
	Query     string
	Chunks    []RetrievedChunk
	Answer    string
	Cost      float64
	Timestamp time.Time
	Tags      []string
	Model     *string
}

// RetrievalDiff describes how retrieved chunks changed between two
// snapshots, keyed by chunk text.
type RetrievalDiff struct {
	Added           []string
	Removed         []string
	Unchanged       []string
	SimilarityScore float64
}

// AnswerDiff describes how the generated answer changed.
type AnswerDiff struct {
	DiffLines       []string
	SimilarityScore float64
	LengthOld       int
	LengthNew       int
}

// CostDiff describes the cost movement between two snapshots.
type CostDiff struct {
	OldCost       float64
	NewCost       float64
	Delta         float64
	PercentChange float64
}

// ComparisonResult joins the three diffs for a snapshot pair.
type ComparisonResult struct {
	Snapshot1Id   uuid.UUID
	Snapshot2Id   uuid.UUID
	QuerySame     bool
	RetrievalDiff RetrievalDiff
	AnswerDiff    AnswerDiff
	CostDiff      CostDiff
	Timestamp     time.Time
}
