package models

import (
	"time"

	"github.com/godilite/ta-grader/internal/rubric"
)

// StudentGradeSummary is one student's parsed rubric output as appended to
// the store. Repeated appends for the same student produce distinct IDs.
type StudentGradeSummary struct {
	ID         string                  `json:"id"`
	Student    string                  `json:"student"`
	Categories []rubric.CategoryResult `json:"categories"`
	CreatedAt  time.Time               `json:"created_at"`
}

// Clone returns a copy that shares no slices with s.
func (s StudentGradeSummary) Clone() StudentGradeSummary {
	out := s
	out.Categories = make([]rubric.CategoryResult, len(s.Categories))
	copy(out.Categories, s.Categories)
	return out
}
