package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/rubric"
)

// Schema creates the tables used by SQLiteSummaryRepository.
const Schema = `
	CREATE TABLE IF NOT EXISTS grade_summaries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		student TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS grade_categories (
		summary_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		grade TEXT NOT NULL,
		feedback TEXT NOT NULL,
		confidence_label TEXT NOT NULL,
		PRIMARY KEY (summary_id, position),
		FOREIGN KEY (summary_id) REFERENCES grade_summaries(id)
	);
`

type SQLiteSummaryRepository struct {
	db *sql.DB
}

func NewSQLiteSummaryRepository(db *sql.DB) *SQLiteSummaryRepository {
	return &SQLiteSummaryRepository{db: db}
}

// Append writes the summary and its categories in one transaction.
func (s *SQLiteSummaryRepository) Append(ctx context.Context, summary models.StudentGradeSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin Append: %w", err)
	}
	defer tx.Rollback()

	const insertSummary = `
		INSERT INTO grade_summaries (id, student, created_at)
		VALUES (?, ?, ?)
	`
	createdAt := summary.CreatedAt.UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, insertSummary, summary.ID, summary.Student, createdAt); err != nil {
		return fmt.Errorf("insert grade_summaries: %w", err)
	}

	const insertCategory = `
		INSERT INTO grade_categories (summary_id, position, category, grade, feedback, confidence_label)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for i, c := range summary.Categories {
		if _, err := tx.ExecContext(ctx, insertCategory, summary.ID, i, c.Category, c.Grade, c.Feedback, c.ConfidenceLabel); err != nil {
			return fmt.Errorf("insert grade_categories[%d]: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit Append: %w", err)
	}
	return nil
}

// List reads every summary in append order, categories in line order.
func (s *SQLiteSummaryRepository) List(ctx context.Context) ([]models.StudentGradeSummary, error) {
	const query = `
		SELECT
			s.id,
			s.student,
			s.created_at,
			c.category,
			c.grade,
			c.feedback,
			c.confidence_label
		FROM grade_summaries AS s
		LEFT JOIN grade_categories AS c ON c.summary_id = s.id
		ORDER BY s.seq, c.position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query List: %w", err)
	}
	defer rows.Close()

	var results []models.StudentGradeSummary
	for rows.Next() {
		var (
			id, student, createdAt           string
			category, grade, feedback, label sql.NullString
		)
		if err := rows.Scan(&id, &student, &createdAt, &category, &grade, &feedback, &label); err != nil {
			return nil, fmt.Errorf("scan List row: %w", err)
		}

		if n := len(results); n == 0 || results[n-1].ID != id {
			ts, err := time.Parse(time.RFC3339Nano, createdAt)
			if err != nil {
				return nil, fmt.Errorf("parse created_at for %s: %w", id, err)
			}
			results = append(results, models.StudentGradeSummary{
				ID:         id,
				Student:    student,
				Categories: []rubric.CategoryResult{},
				CreatedAt:  ts,
			})
		}

		if category.Valid {
			last := &results[len(results)-1]
			last.Categories = append(last.Categories, rubric.CategoryResult{
				Category:        category.String,
				Grade:           grade.String,
				Feedback:        feedback.String,
				ConfidenceLabel: label.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate List: %w", err)
	}
	return results, nil
}
