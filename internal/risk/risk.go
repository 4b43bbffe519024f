// Package risk scans submission text for fraud, spam, and vagueness patterns,
// independently of the factor rubric. Detection order is preserved so that
// identical input always yields identical output.
package risk

import (
	"strings"
)

// fraudTerms are substrings whose presence alone marks a submission as
// suspicious. Each match emits its own "suspicious_language_<term>" tag.
var fraudTerms = []string{
	"urgent", "asap", "immediately", "hacked", "virus", "slow computer",
	"win lottery", "nigerian prince", "click here", "free money",
}

// vaguePhrases combined with a very short submission mark a low-effort
// complaint.
var vaguePhrases = []string{
	"something wrong", "not working", "help me", "fix it",
}

// vagueWordLimit is the word count under which a vague phrase triggers the
// vague_description indicator.
const vagueWordLimit = 10

// VagueDescription is the indicator emitted for short, vague submissions.
const VagueDescription = "vague_description"

// Detect returns the risk indicators found in the combined role+problem text,
// in detection order. The result is empty (nil) when nothing matches.
func Detect(text string) []string {
	var found []string
	lower := strings.ToLower(text)

	for _, term := range fraudTerms {
		if strings.Contains(lower, term) {
			found = append(found, "suspicious_language_"+term)
		}
	}

	if len(strings.Fields(text)) < vagueWordLimit {
		for _, phrase := range vaguePhrases {
			if strings.Contains(lower, phrase) {
				found = append(found, VagueDescription)
				break
			}
		}
	}

	return found
}
