package rubric

import "strings"

// ConfidenceFlag is the binary decision derived from a confidence label.
type ConfidenceFlag string

const (
	// Confident marks labels starting with "very confident" or "pretty confident".
	Confident    ConfidenceFlag = "confident"
	// NotConfident covers every other label, including an empty one.
	NotConfident ConfidenceFlag = "not confident"
)

var confidentPrefixes = []string{
	"very confident",
	"pretty confident",
}

// Classify maps a free-text confidence label to a ConfidenceFlag.
// Anything not starting with a confident phrase, the empty label included,
// is NotConfident.
func Classify(label string) ConfidenceFlag {
	if label == "" {
		return NotConfident
	}
	low := strings.ToLower(label)
	for _, p := range confidentPrefixes {
		if strings.HasPrefix(low, p) {
			return Confident
		}
	}
	return NotConfident
}

func (f ConfidenceFlag) String() string {
	return string(f)
}
