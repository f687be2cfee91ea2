package grpc

import (
	"context"

	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/service"
)

type SummaryStore interface {
	Append(ctx context.Context, student, rubricText string) (models.StudentGradeSummary, error)
}

type ReportBuilder interface {
	BuildReportRows(ctx context.Context) ([]service.ReportRow, error)
}

type SubmissionGrader interface {
	GradeSubmission(ctx context.Context, sub service.Submission) (models.StudentGradeSummary, error)
}
