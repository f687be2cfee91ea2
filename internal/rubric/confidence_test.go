package rubric_test

import (
	"testing"

	"github.com/godilite/ta-grader/internal/rubric"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		label string
		want  rubric.ConfidenceFlag
	}{
		{"very confident", rubric.Confident},
		{"Very Confident", rubric.Confident},
		{"PRETTY CONFIDENT in this grade", rubric.Confident},
		{"pretty confident", rubric.Confident},
		{"somewhat unsure", rubric.NotConfident},
		{"unsure", rubric.NotConfident},
		{"confident", rubric.NotConfident},
		{"not very confident", rubric.NotConfident},
		{" very confident", rubric.NotConfident},
		{"", rubric.NotConfident},
	}

	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			assert.Equal(t, tc.want, rubric.Classify(tc.label))
		})
	}
}

func TestConfidenceFlag_String(t *testing.T) {
	assert.Equal(t, "confident", rubric.Confident.String())
	assert.Equal(t, "not confident", rubric.NotConfident.String())
}
