package service

import (
	"context"
	"strings"
	"time"

	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/repository/contract"
	"rag-debugger-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ICompareService diffs two snapshots: retrieved chunk sets, answer text
// and cost.
type ICompareService interface {
	Compare(ctx context.Context, id1, id2 uuid.UUID) (*dto.ComparisonResponse, error)
}

type compareService struct {
	snapshots contract.SnapshotRepository
}

func NewCompareService(snapshots contract.SnapshotRepository) ICompareService {
	return &compareService{snapshots: snapshots}
}

func (s *compareService) Compare(ctx context.Context, id1, id2 uuid.UUID) (*dto.ComparisonResponse, error) {
	first, err := s.snapshot(ctx, id1)
	if err != nil {
		return nil, err
	}
	second, err := s.snapshot(ctx, id2)
	if err != nil {
		return nil, err
	}

	return &dto.ComparisonResponse{
		Snapshot1Id:   first.Id,
		Snapshot2Id:   second.Id,
		QuerySame:     first.Query == second.Query,
		RetrievalDiff: diffChunks(first.Chunks, second.Chunks),
		AnswerDiff:    diffAnswers(first.Answer, second.Answer),
		CostDiff:      diffCosts(first.Cost, second.Cost),
		Timestamp:     time.Now().UTC(),
	}, nil
}

func (s *compareService) snapshot(ctx context.Context, id uuid.UUID) (*entity.Snapshot, error) {
	snapshot, err := s.snapshots.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, apperror.NotFound("snapshot %s not found", id)
	}
	return snapshot, nil
}

// diffChunks treats chunks as a set keyed by text. The similarity score
// is the Jaccard index of the two sets; two empty sets count as fully
// similar.
func diffChunks(old, new []entity.RetrievedChunk) dto.RetrievalDiffResponse {
	oldSet := chunkTextSet(old)
	newSet := chunkTextSet(new)

	added := []string{}
	removed := []string{}
	unchanged := []string{}

	for _, c := range new {
		if _, ok := oldSet[c.Text]; !ok {
			added = append(added, c.Text)
		} else {
			unchanged = append(unchanged, c.Text)
		}
	}
	for _, c := range old {
		if _, ok := newSet[c.Text]; !ok {
			removed = append(removed, c.Text)
		}
	}

	union := len(oldSet)
	intersection := 0
	for text := range newSet {
		if _, ok := oldSet[text]; ok {
			intersection++
		} else {
			union++
		}
	}

	similarity := 1.0
	if union > 0 {
		similarity = float64(intersection) / float64(union)
	}

	return dto.RetrievalDiffResponse{
		Added:           dedupe(added),
		Removed:         dedupe(removed),
		Unchanged:       dedupe(unchanged),
		SimilarityScore: similarity,
	}
}

func chunkTextSet(chunks []entity.RetrievedChunk) map[string]struct{} {
	set := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		set[c.Text] = struct{}{}
	}
	return set
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// diffAnswers produces a line-level diff with "- " and "+ " prefixes and
// a line-set similarity score.
func diffAnswers(old, new string) dto.AnswerDiffResponse {
	oldLines := splitLines(old)
	newLines := splitLines(new)

	oldSet := make(map[string]struct{}, len(oldLines))
	for _, l := range oldLines {
		oldSet[l] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(newLines))
	for _, l := range newLines {
		newSet[l] = struct{}{}
	}

	diff := []string{}
	for _, l := range oldLines {
		if _, ok := newSet[l]; !ok {
			diff = append(diff, "- "+l)
		}
	}
	for _, l := range newLines {
		if _, ok := oldSet[l]; !ok {
			diff = append(diff, "+ "+l)
		}
	}

	union := len(oldSet)
	intersection := 0
	for l := range newSet {
		if _, ok := oldSet[l]; ok {
			intersection++
		} else {
			union++
		}
	}

	similarity := 1.0
	if union > 0 {
		similarity = float64(intersection) / float64(union)
	}

	return dto.AnswerDiffResponse{
		DiffLines:       diff,
		SimilarityScore: similarity,
		LengthOld:       len(old),
		LengthNew:       len(new),
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if trimmed := strings.TrimRight(l, "\r"); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// diffCosts reports the absolute delta and the percent change relative to
// the old cost. A zero old cost with a nonzero new cost reads as +100%.
func diffCosts(old, new float64) dto.CostDiffResponse {
	delta := new - old

	percent := 0.0
	if old != 0 {
		percent = delta / old * 100
	} else if new != 0 {
		percent = 100
	}

	return dto.CostDiffResponse{
		OldCost:       old,
		NewCost:       new,
		Delta:         delta,
		PercentChange: percent,
	}
}
