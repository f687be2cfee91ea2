package repository

import (
	"context"
	"sync"

	"github.com/godilite/ta-grader/internal/repository/models"
)

// MemorySummaryRepository keeps summaries for the lifetime of the process.
type MemorySummaryRepository struct {
	mu        sync.RWMutex
	summaries []models.StudentGradeSummary
}

func NewMemorySummaryRepository() *MemorySummaryRepository {
	return &MemorySummaryRepository{}
}

// Append adds a summary to the end of the sequence.
func (r *MemorySummaryRepository) Append(ctx context.Context, summary models.StudentGradeSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary.Clone())
	return nil
}

// List returns a copy of every stored summary in append order.
func (r *MemorySummaryRepository) List(ctx context.Context) ([]models.StudentGradeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.StudentGradeSummary, len(r.summaries))
	for i, s := range r.summaries {
		out[i] = s.Clone()
	}
	return out, nil
}
