package service

import "github.com/godilite/ta-grader/internal/rubric"

// ReportRow is one (student, category) line of the class report.
type ReportRow struct {
	Student         string                `json:"student"`
	Category        string                `json:"category"`
	Grade           string                `json:"grade"`
	ConfidenceLabel string                `json:"confidence_label"`
	ConfidenceFlag  rubric.ConfidenceFlag `json:"confidence_flag"`
}

// Submission is one student's work to be graded.
type Submission struct {
	Student string `json:"student"`
	Content string `json:"content"`
}
