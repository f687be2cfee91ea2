package rubric

import "strings"

// ParseText parses every line of one student's rubric output. Blank and
// malformed lines are dropped; the remaining results keep input order and
// repeated categories are kept as separate entries.
func ParseText(text string) []CategoryResult {
	lines := strings.Split(text, "\n")
	results := make([]CategoryResult, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r, ok := ParseLine(line); ok {
			results = append(results, r)
		}
	}
	return results
}
