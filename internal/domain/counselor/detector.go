package counselor

import (
	"fmt"
	"strings"
)

// Finding explains why a statement was flagged.
type Finding struct {
	Phrase      string `json:"phrase"`
	Explanation string `json:"explanation"`
}

// HallucinationDetector flags absolute medical claims that misrepresent
// how mental health treatments work.
type HallucinationDetector struct {
	Threshold float64
	Phrases   []string
}

// DefaultHallucinationPhrases are the claim fragments the detector
// screens for.
func DefaultHallucinationPhrases() []string {
	return []string{
		"cure",
		"guaranteed",
		"always works",
		"100% effective",
		"miracle",
		"instant relief",
		"permanent solution",
	}
}

func NewHallucinationDetector(threshold float64) *HallucinationDetector {
	if threshold <= 0 {
		threshold = 0.8
	}
	return &HallucinationDetector{
		Threshold: threshold,
		Phrases:   DefaultHallucinationPhrases(),
	}
}

// Check reports whether the text contains an absolute medical claim.
// Matching is case-insensitive substring matching.
func (d *HallucinationDetector) Check(text string) (bool, Finding) {
	lower := strings.ToLower(text)
	for _, phrase := range d.Phrases {
		if strings.Contains(lower, phrase) {
			return true, Finding{
				Phrase: phrase,
				Explanation: fmt.Sprintf(
					"The statement contains potentially misleading medical claims like '%s'. Mental health treatments vary in effectiveness for different individuals.",
					phrase,
				),
			}
		}
	}
	return false, Finding{Explanation: "No potential hallucinations detected."}
}
