package rubric_test

import (
	"strings"
	"testing"

	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	t.Run("headers and rows", func(t *testing.T) {
		in := "Analysis, Evidence ,Citations\n" +
			"(5) excellent,(5) strong,\n" +
			"(3) fair,,\n"

		sheet, err := rubric.ParseCSV(strings.NewReader(in))

		require.NoError(t, err)
		assert.Equal(t, []string{"Analysis", "Evidence", "Citations"}, sheet.Headers)
		require.Len(t, sheet.Rows, 2)
		assert.Equal(t, "(5) excellent", sheet.Rows[0]["Analysis"])
		assert.Equal(t, "(5) strong", sheet.Rows[0]["Evidence"])
		assert.Equal(t, "", sheet.Rows[1]["Evidence"])
	})

	t.Run("short records are padded", func(t *testing.T) {
		sheet, err := rubric.ParseCSV(strings.NewReader("A,B\nonly-a\n"))

		require.NoError(t, err)
		require.Len(t, sheet.Rows, 1)
		assert.Equal(t, "only-a", sheet.Rows[0]["A"])
		assert.Equal(t, "", sheet.Rows[0]["B"])
	})

	t.Run("header only", func(t *testing.T) {
		sheet, err := rubric.ParseCSV(strings.NewReader("A,B\n"))

		require.NoError(t, err)
		assert.Empty(t, sheet.Rows)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := rubric.ParseCSV(strings.NewReader(""))

		assert.ErrorIs(t, err, rubric.ErrEmptyRubric)
	})
}

func TestSheet_PromptText(t *testing.T) {
	in := "Analysis,Evidence,Citations\n" +
		"(5) excellent,(5) strong,\n" +
		"(3) fair,,\n" +
		"(1) poor,,\n"

	sheet, err := rubric.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)

	want := "Analysis: (5) excellent: (3) fair; (1) poor\n" +
		"Evidence: (5) strong:\n" +
		"Citations:"
	assert.Equal(t, want, sheet.PromptText())
	assert.Equal(t, []string{"Analysis", "Evidence", "Citations"}, sheet.Categories())
}
