// Package schema defines all canonical data types for the TrustGate output format.
package schema

// Decision is the binary outcome of a verification request.
type Decision string

const (
	DecisionVerified    Decision = "verified"
	DecisionNonVerified Decision = "non_verified"
)

// Valid reports whether d is one of the two allowed decision values.
func (d Decision) Valid() bool {
	return d == DecisionVerified || d == DecisionNonVerified
}

// VerificationLevel is the coarse access tier derived from confidence.
type VerificationLevel string

const (
	LevelBasic    VerificationLevel = "basic"
	LevelEnhanced VerificationLevel = "enhanced"
	LevelPremium  VerificationLevel = "premium"
)

// Factors holds the eight independent heuristic scores, each in [0,1].
// A Factors value is computed once per request and never mutated.
type Factors struct {
	RoleCredibility    float64 `json:"role_credibility"`
	ProblemSeverity    float64 `json:"problem_severity"`
	ProblemSpecificity float64 `json:"problem_specificity"`
	TechnicalAccuracy  float64 `json:"technical_accuracy"`
	ThreatAlignment    float64 `json:"threat_alignment"`
	LanguageQuality    float64 `json:"language_quality"`
	UrgencyIndicators  float64 `json:"urgency_indicators"`
	BioContext         float64 `json:"bio_context"`
}

// ThreatMatch is one similarity-search hit against the known-vulnerability
// corpus, supplied externally as corroboration of a claimed threat.
type ThreatMatch struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt,omitempty"`
}

// Request is the input to the decision engine.
type Request struct {
	Role    string        `json:"role"`
	Problem string        `json:"problem"`
	Matches []ThreatMatch `json:"matches,omitempty"`
}

// CombinedText returns role and problem joined the way every text scanner
// sees them.
func (r Request) CombinedText() string {
	return r.Role + " " + r.Problem
}

// VerificationResult is the externally visible decision envelope produced by
// the heuristic engine. It is built fresh per request and never mutated after
// construction.
type VerificationResult struct {
	Decision          Decision          `json:"decision"`
	Confidence        float64           `json:"confidence"`
	ScoreBin          string            `json:"score_bin"`
	ReasonCodes       []string          `json:"reason_codes"`
	Factors           Factors           `json:"factors"`
	RiskIndicators    []string          `json:"risk_indicators"`
	VerificationLevel VerificationLevel `json:"verification_level"`
	Recommendations   []string          `json:"recommendations"`
}

// SimilarCVE is one similarity match echoed back to the caller for
// transparency on the cross-check path.
type SimilarCVE struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
}

// CrossCheckResult is the reduced envelope produced by the generation
// cross-check path. The oracle does not populate the factor breakdown.
type CrossCheckResult struct {
	Decision    Decision     `json:"decision"`
	ScoreBin    string       `json:"score_bin"`
	ReasonCodes []string     `json:"reason_codes"`
	SimilarCVEs []SimilarCVE `json:"similar_cves,omitempty"`
}
