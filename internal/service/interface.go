package service

import (
	"context"

	"github.com/godilite/ta-grader/internal/repository/models"
)

// SummaryRepository defines the storage operations behind GradeSummaryStore.
type SummaryRepository interface {
	Append(ctx context.Context, summary models.StudentGradeSummary) error
	List(ctx context.Context) ([]models.StudentGradeSummary, error)
}

// Completer sends a prompt to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
