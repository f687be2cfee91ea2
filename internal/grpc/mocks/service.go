package mocks

import (
	"context"
	"errors"

	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/service"
)

// MockSummaryStore is a mock implementation of the SummaryStore interface
// for testing the handler layer.
type MockSummaryStore struct {
	AppendFunc func(ctx context.Context, student, rubricText string) (models.StudentGradeSummary, error)
}

// Append implements the SummaryStore interface
func (m *MockSummaryStore) Append(ctx context.Context, student, rubricText string) (models.StudentGradeSummary, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, student, rubricText)
	}
	return models.StudentGradeSummary{}, errors.New("AppendFunc not implemented")
}

// MockReportBuilder is a mock implementation of the ReportBuilder interface.
type MockReportBuilder struct {
	BuildReportRowsFunc func(ctx context.Context) ([]service.ReportRow, error)
}

// BuildReportRows implements the ReportBuilder interface
func (m *MockReportBuilder) BuildReportRows(ctx context.Context) ([]service.ReportRow, error) {
	if m.BuildReportRowsFunc != nil {
		return m.BuildReportRowsFunc(ctx)
	}
	return nil, errors.New("BuildReportRowsFunc not implemented")
}

// MockSubmissionGrader is a mock implementation of the SubmissionGrader interface.
type MockSubmissionGrader struct {
	GradeSubmissionFunc func(ctx context.Context, sub service.Submission) (models.StudentGradeSummary, error)
}

// GradeSubmission implements the SubmissionGrader interface
func (m *MockSubmissionGrader) GradeSubmission(ctx context.Context, sub service.Submission) (models.StudentGradeSummary, error) {
	if m.GradeSubmissionFunc != nil {
		return m.GradeSubmissionFunc(ctx, sub)
	}
	return models.StudentGradeSummary{}, errors.New("GradeSubmissionFunc not implemented")
}
