package rubric

import "strings"

const (
	segmentSeparator  = ";"
	gradeSeparator    = ":"
	feedbackQuoteMark = `"""`
)

// CategoryResult is one graded rubric category for one student.
type CategoryResult struct {
	Category        string `json:"category"`
	Grade           string `json:"grade"`
	Feedback        string `json:"feedback"`
	ConfidenceLabel string `json:"confidence_label"`
}

// ParseLine converts a single rubric line of the form
//
//	Category: Grade[; """Feedback"""][; Confidence phrase]
//
// into a CategoryResult. It reports false for blank lines, lines whose first
// segment has no ':' and lines with an empty category.
//
// Only the first three ';' segments are read, so feedback that itself contains
// ';' is cut at that point.
func ParseLine(line string) (CategoryResult, bool) {
	if strings.TrimSpace(line) == "" {
		return CategoryResult{}, false
	}

	parts := strings.Split(line, segmentSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] == "" {
		return CategoryResult{}, false
	}

	category, grade, found := strings.Cut(parts[0], gradeSeparator)
	if !found {
		return CategoryResult{}, false
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return CategoryResult{}, false
	}

	return CategoryResult{
		Category:        category,
		Grade:           strings.TrimSpace(grade),
		Feedback:        strings.ReplaceAll(segment(parts, 1), feedbackQuoteMark, ""),
		ConfidenceLabel: segment(parts, 2),
	}, true
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
