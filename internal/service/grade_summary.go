package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dbTimeout = 1 * time.Second
)

var (
	ErrNoGradeData    = errors.New("no grade data available")
	ErrStorageFailure = errors.New("storage failure")
)

// GradeSummaryStore is the append-only collection of per-student results.
type GradeSummaryStore struct {
	storage SummaryRepository
	logger  *zap.Logger
	newID   func() string
	now     func() time.Time
}

// NewGradeSummaryStore creates a store on top of the given repository.
func NewGradeSummaryStore(storage SummaryRepository, logger *zap.Logger) *GradeSummaryStore {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeSummaryStore{
		storage: storage,
		logger:  logger.Named("grade-store"),
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Append parses rubricText and appends it under student. Nothing is
// validated: repeated students produce independent entries and a text with
// no parseable lines is stored with zero categories.
func (s *GradeSummaryStore) Append(ctx context.Context, student, rubricText string) (models.StudentGradeSummary, error) {
	summary := models.StudentGradeSummary{
		ID:         s.newID(),
		Student:    student,
		Categories: rubric.ParseText(rubricText),
		CreatedAt:  s.now().UTC(),
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.Append(dbCtx, summary); err != nil {
		return models.StudentGradeSummary{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("grade result registered",
		zap.String("id", summary.ID),
		zap.String("student", student),
		zap.Int("categories", len(summary.Categories)))

	return summary, nil
}

// Summaries returns every stored summary in append order.
func (s *GradeSummaryStore) Summaries(ctx context.Context) ([]models.StudentGradeSummary, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	summaries, err := s.storage.List(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return summaries, nil
}
