package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/godilite/ta-grader/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSheet(t *testing.T) *rubric.Sheet {
	t.Helper()
	sheet, err := rubric.ParseCSV(strings.NewReader("Analysis,Evidence\n(5) excellent,(5) strong\n(1) poor,(1) none\n"))
	require.NoError(t, err)
	return sheet
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("  Analysis: (5) excellent:\n", "\nMy essay.\n")

	assert.Contains(t, prompt, "Analysis: (5) excellent:\n")
	assert.Contains(t, prompt, `Category: Grade; """Feedback"""; Confidence`)
	assert.True(t, strings.HasSuffix(prompt, "My essay.\n"))
}

func TestNewGradingService(t *testing.T) {
	store := newTestStore(t)

	assert.Panics(t, func() { NewGradingService(nil, &mocks.MockCompleter{}, nil) })
	assert.Panics(t, func() { NewGradingService(store, nil, nil) })
	assert.NotNil(t, NewGradingService(store, &mocks.MockCompleter{}, nil))
}

func TestGradingService_Rubric(t *testing.T) {
	svc := NewGradingService(newTestStore(t), &mocks.MockCompleter{}, zap.NewNop())

	_, err := svc.Rubric()
	assert.ErrorIs(t, err, ErrNoRubric)

	sheet := testSheet(t)
	svc.SetRubric(sheet)

	got, err := svc.Rubric()
	require.NoError(t, err)
	assert.Same(t, sheet, got)
}

func TestGradingService_GradeSubmissions(t *testing.T) {
	ctx := context.Background()

	t.Run("grades in order and registers results", func(t *testing.T) {
		store := newTestStore(t)
		completer := &mocks.MockCompleter{
			CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
				if strings.Contains(prompt, "alice essay") {
					return "Analysis: (5) excellent; \"\"\"Sharp\"\"\"; very confident\nEvidence: (1) none; \"\"\"Cite\"\"\"; unsure", nil
				}
				return "Analysis: (1) poor; \"\"\"Thin\"\"\"; pretty confident", nil
			},
		}
		svc := NewGradingService(store, completer, zap.NewNop())
		svc.SetRubric(testSheet(t))

		graded, err := svc.GradeSubmissions(ctx, []Submission{
			{Student: "alice.txt", Content: "alice essay"},
			{Student: "bob.txt", Content: "bob essay"},
		})

		require.NoError(t, err)
		require.Len(t, graded, 2)
		assert.Equal(t, "alice.txt", graded[0].Student)
		assert.Len(t, graded[0].Categories, 2)
		assert.Equal(t, "Sharp", graded[0].Categories[0].Feedback)
		assert.Equal(t, "bob.txt", graded[1].Student)

		require.Len(t, completer.Prompts, 2)
		assert.Contains(t, completer.Prompts[0], "Analysis: (5) excellent: (1) poor")
		assert.Contains(t, completer.Prompts[0], "alice essay")

		rows, err := NewReportService(store, nil).BuildReportRows(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("no rubric", func(t *testing.T) {
		svc := NewGradingService(newTestStore(t), &mocks.MockCompleter{}, zap.NewNop())

		_, err := svc.GradeSubmissions(ctx, []Submission{{Student: "a"}})

		assert.ErrorIs(t, err, ErrNoRubric)
	})

	t.Run("no submissions", func(t *testing.T) {
		svc := NewGradingService(newTestStore(t), &mocks.MockCompleter{}, zap.NewNop())
		svc.SetRubric(testSheet(t))

		_, err := svc.GradeSubmissions(ctx, nil)

		assert.ErrorIs(t, err, ErrNoSubmissions)
	})

	t.Run("model failure stops the run", func(t *testing.T) {
		upstream := errors.New("model overloaded")
		calls := 0
		completer := &mocks.MockCompleter{
			CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
				calls++
				if calls == 2 {
					return "", upstream
				}
				return "Analysis: 4", nil
			},
		}
		store := newTestStore(t)
		svc := NewGradingService(store, completer, zap.NewNop())
		svc.SetRubric(testSheet(t))

		graded, err := svc.GradeSubmissions(ctx, []Submission{
			{Student: "a"}, {Student: "b"}, {Student: "c"},
		})

		assert.ErrorIs(t, err, upstream)
		assert.Contains(t, err.Error(), `grade "b"`)
		assert.Len(t, graded, 1)
		assert.Equal(t, 2, calls)

		all, err := store.Summaries(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("canceled context", func(t *testing.T) {
		svc := NewGradingService(newTestStore(t), &mocks.MockCompleter{}, zap.NewNop())
		svc.SetRubric(testSheet(t))
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		graded, err := svc.GradeSubmissions(cctx, []Submission{{Student: "a"}})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, graded)
	})
}

func TestGradingService_GradeSubmission(t *testing.T) {
	completer := &mocks.MockCompleter{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			return "Evidence: (5) strong; ok; very confident", nil
		},
	}
	svc := NewGradingService(newTestStore(t), completer, zap.NewNop())

	_, err := svc.GradeSubmission(context.Background(), Submission{Student: "a"})
	assert.ErrorIs(t, err, ErrNoRubric)

	svc.SetRubric(testSheet(t))
	summary, err := svc.GradeSubmission(context.Background(), Submission{Student: "a", Content: "x"})

	require.NoError(t, err)
	assert.Equal(t, "a", summary.Student)
	require.Len(t, summary.Categories, 1)
	assert.Equal(t, "Evidence", summary.Categories[0].Category)
}
