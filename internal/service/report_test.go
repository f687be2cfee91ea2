package service

import (
	"context"
	"errors"
	"testing"

	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/godilite/ta-grader/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildReportRows(t *testing.T) {
	t.Run("empty store signals no data", func(t *testing.T) {
		rows, err := BuildReportRows(nil)

		assert.ErrorIs(t, err, ErrNoGradeData)
		assert.Nil(t, rows)
	})

	t.Run("rows follow store then category order", func(t *testing.T) {
		summaries := []models.StudentGradeSummary{
			{
				Student: "alice",
				Categories: []rubric.CategoryResult{
					{Category: "Analysis", Grade: "(5)", ConfidenceLabel: "Very confident"},
					{Category: "Evidence", Grade: "(3)", ConfidenceLabel: "somewhat unsure"},
				},
			},
			{Student: "carol"},
			{
				Student: "bob",
				Categories: []rubric.CategoryResult{
					{Category: "Analysis", Grade: "(4)", ConfidenceLabel: ""},
				},
			},
		}

		rows, err := BuildReportRows(summaries)

		require.NoError(t, err)
		assert.Equal(t, []ReportRow{
			{Student: "alice", Category: "Analysis", Grade: "(5)", ConfidenceLabel: "Very confident", ConfidenceFlag: rubric.Confident},
			{Student: "alice", Category: "Evidence", Grade: "(3)", ConfidenceLabel: "somewhat unsure", ConfidenceFlag: rubric.NotConfident},
			{Student: "bob", Category: "Analysis", Grade: "(4)", ConfidenceLabel: "", ConfidenceFlag: rubric.NotConfident},
		}, rows)
	})

	t.Run("students without categories yield an empty row set", func(t *testing.T) {
		rows, err := BuildReportRows([]models.StudentGradeSummary{{Student: "empty"}})

		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func TestReportService_BuildReportRows(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate students are reported independently", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.Append(ctx, "alice", "Analysis: 5; good; very confident")
		require.NoError(t, err)
		_, err = store.Append(ctx, "alice", "Analysis: 2; weak; unsure\nEvidence: 3; ok; pretty confident")
		require.NoError(t, err)

		svc := NewReportService(store, zap.NewNop())
		rows, err := svc.BuildReportRows(ctx)

		require.NoError(t, err)
		require.Len(t, rows, 3)
		for _, r := range rows {
			assert.Equal(t, "alice", r.Student)
		}
		assert.Equal(t, "5", rows[0].Grade)
		assert.Equal(t, "2", rows[1].Grade)
		assert.Equal(t, rubric.Confident, rows[2].ConfidenceFlag)
	})

	t.Run("idempotent on an unmodified store", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.Append(ctx, "bob", "Analysis: 5\nEvidence: 4; fine; very confident")
		require.NoError(t, err)

		svc := NewReportService(store, nil)
		first, err := svc.BuildReportRows(ctx)
		require.NoError(t, err)
		second, err := svc.BuildReportRows(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("empty store", func(t *testing.T) {
		svc := NewReportService(newTestStore(t), zap.NewNop())

		_, err := svc.BuildReportRows(ctx)

		assert.ErrorIs(t, err, ErrNoGradeData)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mocks.MockSummaryRepository{
			ListFunc: func(ctx context.Context) ([]models.StudentGradeSummary, error) {
				return nil, errors.New("connection lost")
			},
		}
		svc := NewReportService(NewGradeSummaryStore(repo, zap.NewNop()), zap.NewNop())

		_, err := svc.BuildReportRows(ctx)

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.NotErrorIs(t, err, ErrNoGradeData)
	})

	t.Run("nil store panics", func(t *testing.T) {
		assert.Panics(t, func() { NewReportService(nil, nil) })
	})
}
