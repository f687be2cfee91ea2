package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/rubric"
	"go.uber.org/zap"
)

var (
	ErrNoRubric      = errors.New("no rubric loaded")
	ErrNoSubmissions = errors.New("no submissions to grade")
)

const promptTemplate = `You are a teaching assistant grading one student submission against a rubric.

Rubric (one category per line):
%s

Reply with exactly one line per rubric category and nothing else, in this format:
Category: Grade; """Feedback"""; Confidence
Confidence must be one of: very confident, pretty confident, somewhat unsure, unsure.

Student submission:
%s
`

// BuildPrompt composes the model prompt for one submission.
func BuildPrompt(rubricText, submission string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(rubricText), strings.TrimSpace(submission))
}

// GradingService drafts rubric feedback for submissions with a language
// model and registers the parsed result in the store.
type GradingService struct {
	store     *GradeSummaryStore
	completer Completer
	logger    *zap.Logger

	mu    sync.RWMutex
	sheet *rubric.Sheet
}

func NewGradingService(store *GradeSummaryStore, completer Completer, logger *zap.Logger) *GradingService {
	if store == nil {
		panic("store must not be nil")
	}
	if completer == nil {
		panic("completer must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{
		store:     store,
		completer: completer,
		logger:    logger.Named("grading"),
	}
}

// SetRubric replaces the rubric used for subsequent grading.
func (g *GradingService) SetRubric(sheet *rubric.Sheet) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sheet = sheet

	g.logger.Info("rubric loaded",
		zap.Strings("categories", sheet.Categories()),
		zap.Int("rows", len(sheet.Rows)))
}

// Rubric returns the current rubric, or ErrNoRubric.
func (g *GradingService) Rubric() (*rubric.Sheet, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.sheet == nil {
		return nil, ErrNoRubric
	}
	return g.sheet, nil
}

// GradeSubmission grades a single submission and appends the result.
func (g *GradingService) GradeSubmission(ctx context.Context, sub Submission) (models.StudentGradeSummary, error) {
	sheet, err := g.Rubric()
	if err != nil {
		return models.StudentGradeSummary{}, err
	}
	return g.grade(ctx, sheet.PromptText(), sub)
}

// GradeSubmissions grades submissions one after another. On the first
// failure it stops and returns the summaries registered so far with the
// error.
func (g *GradingService) GradeSubmissions(ctx context.Context, subs []Submission) ([]models.StudentGradeSummary, error) {
	sheet, err := g.Rubric()
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, ErrNoSubmissions
	}

	rubricText := sheet.PromptText()
	start := time.Now()
	graded := make([]models.StudentGradeSummary, 0, len(subs))

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return graded, err
		}
		summary, err := g.grade(ctx, rubricText, sub)
		if err != nil {
			return graded, err
		}
		graded = append(graded, summary)
	}

	g.logger.Info("grading run finished",
		zap.Int("submissions", len(subs)),
		zap.Duration("elapsed", time.Since(start)))

	return graded, nil
}

func (g *GradingService) grade(ctx context.Context, rubricText string, sub Submission) (models.StudentGradeSummary, error) {
	text, err := g.completer.Complete(ctx, BuildPrompt(rubricText, sub.Content))
	if err != nil {
		g.logger.Warn("model call failed", zap.String("student", sub.Student), zap.Error(err))
		return models.StudentGradeSummary{}, fmt.Errorf("grade %q: %w", sub.Student, err)
	}
	return g.store.Append(ctx, sub.Student, text)
}
