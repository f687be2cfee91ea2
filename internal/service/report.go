package service

import (
	"context"

	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/rubric"
	"go.uber.org/zap"
)

// BuildReportRows flattens summaries into one row per graded category,
// student order first, then category order. It returns ErrNoGradeData when
// there are no summaries at all; a student with no categories adds no rows.
func BuildReportRows(summaries []models.StudentGradeSummary) ([]ReportRow, error) {
	if len(summaries) == 0 {
		return nil, ErrNoGradeData
	}

	n := 0
	for _, s := range summaries {
		n += len(s.Categories)
	}

	rows := make([]ReportRow, 0, n)
	for _, s := range summaries {
		for _, c := range s.Categories {
			rows = append(rows, ReportRow{
				Student:         s.Student,
				Category:        c.Category,
				Grade:           c.Grade,
				ConfidenceLabel: c.ConfidenceLabel,
				ConfidenceFlag:  rubric.Classify(c.ConfidenceLabel),
			})
		}
	}
	return rows, nil
}

// ReportService builds report rows from a GradeSummaryStore.
type ReportService struct {
	store  *GradeSummaryStore
	logger *zap.Logger
}

func NewReportService(store *GradeSummaryStore, logger *zap.Logger) *ReportService {
	if store == nil {
		panic("store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		store:  store,
		logger: logger.Named("report"),
	}
}

// BuildReportRows reads the whole store and flattens it.
func (r *ReportService) BuildReportRows(ctx context.Context) ([]ReportRow, error) {
	summaries, err := r.store.Summaries(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := BuildReportRows(summaries)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("report rows built",
		zap.Int("students", len(summaries)),
		zap.Int("rows", len(rows)))

	return rows, nil
}
