package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/ta-grader/internal/repository"
	"github.com/godilite/ta-grader/internal/repository/models"
	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/godilite/ta-grader/pkg/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(context.Background(),
		database.WithDriver("sqlite3"),
		database.WithDataSource(":memory:"),
		database.WithSchema(repository.Schema),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSQLiteSummaryRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSQLiteSummaryRepository(setupTestDB(t))
	created := time.Date(2025, 10, 18, 10, 0, 0, 0, time.UTC)

	alice := models.StudentGradeSummary{
		ID:      "a-1",
		Student: "alice.txt",
		Categories: []rubric.CategoryResult{
			{Category: "Analysis", Grade: "(5) excellent", Feedback: "Great job", ConfidenceLabel: "very confident"},
			{Category: "Evidence", Grade: "(3) fair", Feedback: "", ConfidenceLabel: "somewhat unsure"},
		},
		CreatedAt: created,
	}
	bob := models.StudentGradeSummary{
		ID:         "b-1",
		Student:    "bob.txt",
		Categories: nil,
		CreatedAt:  created.Add(time.Minute),
	}
	aliceAgain := models.StudentGradeSummary{
		ID:      "a-2",
		Student: "alice.txt",
		Categories: []rubric.CategoryResult{
			{Category: "Analysis", Grade: "(4) good"},
		},
		CreatedAt: created.Add(2 * time.Minute),
	}

	t.Run("List on empty store", func(t *testing.T) {
		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Append keeps order and duplicates", func(t *testing.T) {
		require.NoError(t, repo.Append(ctx, alice))
		require.NoError(t, repo.Append(ctx, bob))
		require.NoError(t, repo.Append(ctx, aliceAgain))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "a-1", got[0].ID)
		assert.Equal(t, alice.Categories, got[0].Categories)
		assert.True(t, created.Equal(got[0].CreatedAt))

		assert.Equal(t, "bob.txt", got[1].Student)
		assert.Empty(t, got[1].Categories)

		assert.Equal(t, "a-2", got[2].ID)
		assert.Equal(t, "alice.txt", got[2].Student)
		assert.Len(t, got[2].Categories, 1)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		err := repo.Append(ctx, alice)
		assert.Error(t, err)

		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestSQLiteSummaryRepository_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO grade_summaries").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		repo := repository.NewSQLiteSummaryRepository(db)
		err = repo.Append(ctx, models.StudentGradeSummary{ID: "x", Student: "x"})

		assert.ErrorContains(t, err, "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO grade_summaries").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO grade_categories").WillReturnError(errors.New("constraint failed"))
		mock.ExpectRollback()

		repo := repository.NewSQLiteSummaryRepository(db)
		err = repo.Append(ctx, models.StudentGradeSummary{
			ID:         "x",
			Student:    "x",
			Categories: []rubric.CategoryResult{{Category: "Analysis"}},
		})

		assert.ErrorContains(t, err, "grade_categories[0]")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection lost"))

		repo := repository.NewSQLiteSummaryRepository(db)
		got, err := repo.List(ctx)

		assert.Nil(t, got)
		assert.ErrorContains(t, err, "connection lost")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad timestamp", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "student", "created_at", "category", "grade", "feedback", "confidence_label"}).
			AddRow("x", "x", "yesterday", nil, nil, nil, nil)
		mock.ExpectQuery("SELECT").WillReturnRows(rows)

		repo := repository.NewSQLiteSummaryRepository(db)
		_, err = repo.List(ctx)

		assert.ErrorContains(t, err, "parse created_at")
	})
}
