// Package factors computes the eight independent heuristic trust scores from
// the submitted role text, problem text, and optional similarity matches.
// Every analyzer is a pure function returning a discrete value from a small
// fixed ladder; the rubric is deliberately human-auditable rather than a
// continuous model. No analyzer ever returns an error — empty input degrades
// to a documented default.
package factors

import (
	"strings"
	"unicode"

	"github.com/verisec/trustgate/internal/schema"
)

// Extract computes all eight factors for one request.
func Extract(req schema.Request) schema.Factors {
	return schema.Factors{
		RoleCredibility:    RoleCredibility(req.Role),
		ProblemSeverity:    ProblemSeverity(req.Problem),
		ProblemSpecificity: ProblemSpecificity(req.Problem),
		TechnicalAccuracy:  TechnicalAccuracy(req.Problem),
		ThreatAlignment:    ThreatAlignment(req.Matches),
		LanguageQuality:    LanguageQuality(req.CombinedText()),
		UrgencyIndicators:  UrgencyIndicators(req.Problem),
		BioContext:         BioContext(req.Role, req.Problem),
	}
}

// roleRule is one entry in the role credibility ladder. Rules are evaluated
// top-down; the first match wins.
type roleRule struct {
	name  string
	match func(role string) bool
	score float64
}

// roleRules is the priority-ordered credibility ladder. The "org_alone" entry
// is unreachable at runtime because the preceding "org_or_title_or_tech" rule
// subsumes it; it is kept so that all five documented rubric values remain
// visible. TODO: confirm with product whether org-alone was meant to rank
// below title-or-tech before removing it.
var roleRules = []roleRule{
	{"credible", func(r string) bool { return containsAny(r, credibleRoles) }, 0.9},
	{"student", func(r string) bool { return containsAny(r, studentRoles) }, 0.3},
	{"non_field", func(r string) bool { return containsAny(r, nonFieldRoles) }, 0.2},
	{"org_and_title", func(r string) bool {
		return containsAny(r, orgIndicators) && containsAny(r, professionalTitles)
	}, 0.8},
	{"org_or_title_or_tech", func(r string) bool {
		return containsAny(r, orgIndicators) || containsAny(r, professionalTitles) ||
			containsAny(r, techIndicators)
	}, 0.6},
	{"org_alone", func(r string) bool { return containsAny(r, orgIndicators) }, 0.5},
}

// RoleCredibility scores the claimed role. Empty role gets the lenient
// default rather than zero.
func RoleCredibility(role string) float64 {
	if strings.TrimSpace(role) == "" {
		return 0.4
	}
	lower := strings.ToLower(role)
	for _, rule := range roleRules {
		if rule.match(lower) {
			return rule.score
		}
	}
	return 0.4
}

// RoleRuleScore returns the rubric value declared for the named credibility
// rule, and whether the rule exists. It exposes the full five-tier rubric
// including entries that cannot fire at runtime.
func RoleRuleScore(name string) (float64, bool) {
	for _, rule := range roleRules {
		if rule.name == name {
			return rule.score, true
		}
	}
	return 0, false
}

// ProblemSeverity scores the problem text by counting severity keywords.
func ProblemSeverity(problem string) float64 {
	if problem == "" {
		return 0.0
	}
	switch n := countMatches(strings.ToLower(problem), severityKeywords); {
	case n >= 3:
		return 0.9
	case n >= 2:
		return 0.7
	case n >= 1:
		return 0.5
	default:
		return 0.3
	}
}

// ProblemSpecificity scores how detailed the problem description is, by word
// count.
func ProblemSpecificity(problem string) float64 {
	if problem == "" {
		return 0.0
	}
	switch n := len(strings.Fields(problem)); {
	case n >= 50:
		return 0.9
	case n >= 30:
		return 0.7
	case n >= 15:
		return 0.5
	default:
		return 0.3
	}
}

// TechnicalAccuracy scores use of security terminology.
func TechnicalAccuracy(problem string) float64 {
	if problem == "" {
		return 0.0
	}
	switch n := countMatches(strings.ToLower(problem), technicalTerms); {
	case n >= 3:
		return 0.9
	case n >= 2:
		return 0.7
	case n >= 1:
		return 0.5
	default:
		return 0.2
	}
}

// ThreatAlignment scores corroboration by known threats, from the mean
// similarity of the supplied matches.
func ThreatAlignment(matches []schema.ThreatMatch) float64 {
	if len(matches) == 0 {
		return 0.0
	}
	var sum float64
	for _, m := range matches {
		sum += m.Score
	}
	switch avg := sum / float64(len(matches)); {
	case avg > 0.7:
		return 0.9
	case avg > 0.5:
		return 0.7
	case avg > 0.3:
		return 0.5
	default:
		return 0.2
	}
}

// LanguageQuality scores writing professionalism over the combined role and
// problem text. Shouting (>30% uppercase) or excessive exclamation marks
// floor the score regardless of other signals.
func LanguageQuality(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	var total, upper, exclaims int
	hasUpper, hasPunct := false, false
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
			hasUpper = true
		}
		switch r {
		case '!':
			exclaims++
			hasPunct = true
		case '.', '?':
			hasPunct = true
		}
	}

	shouting := float64(upper)/float64(total) > 0.3
	excessive := exclaims > 3
	if shouting || excessive {
		return 0.2
	}

	switch {
	case hasUpper && hasPunct:
		return 0.8
	case hasUpper || hasPunct:
		return 0.5
	default:
		return 0.3
	}
}

// UrgencyIndicators distinguishes scam-style urgency from legitimate time
// pressure. Any suspicious phrase overrides everything else.
func UrgencyIndicators(problem string) float64 {
	if problem == "" {
		return 0.0
	}
	lower := strings.ToLower(problem)
	if containsAny(lower, suspiciousUrgency) {
		return 0.1
	}
	if containsAny(lower, legitimateUrgency) {
		return 0.7
	}
	return 0.5
}

// BioContext scores biological/biotech relevance of the combined text.
func BioContext(role, problem string) float64 {
	combined := role + " " + problem
	if strings.TrimSpace(combined) == "" {
		return 0.0
	}
	switch n := countMatches(strings.ToLower(combined), bioKeywords); {
	case n >= 3:
		return 0.9
	case n >= 2:
		return 0.7
	case n >= 1:
		return 0.5
	default:
		return 0.3
	}
}

// LowTrustRole reports whether the role matches the student/trainee list or
// the clearly-unrelated-occupation list. Used by the decision policy as a
// category override.
func LowTrustRole(role string) bool {
	if role == "" {
		return false
	}
	lower := strings.ToLower(role)
	return containsAny(lower, studentRoles) || containsAny(lower, nonFieldRoles)
}

// containsAny reports whether any needle occurs in the lower-cased haystack.
func containsAny(lower string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// countMatches counts how many distinct needles occur in the lower-cased
// haystack. Multiple occurrences of one needle count once.
func countMatches(lower string, needles []string) int {
	count := 0
	for _, n := range needles {
		if strings.Contains(lower, n) {
			count++
		}
	}
	return count
}
