package mocks

import (
	"context"
	"errors"

	"github.com/godilite/ta-grader/internal/repository/models"
)

// MockSummaryRepository is a mock implementation of the SummaryRepository interface
// for testing the service layer.
type MockSummaryRepository struct {
	AppendFunc func(ctx context.Context, summary models.StudentGradeSummary) error
	ListFunc   func(ctx context.Context) ([]models.StudentGradeSummary, error)
}

// Append implements the SummaryRepository interface
func (m *MockSummaryRepository) Append(ctx context.Context, summary models.StudentGradeSummary) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, summary)
	}
	return errors.New("AppendFunc not implemented")
}

// List implements the SummaryRepository interface
func (m *MockSummaryRepository) List(ctx context.Context) ([]models.StudentGradeSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, errors.New("ListFunc not implemented")
}
