// Package verdict provides the deterministic local decision logic: weighted
// confidence aggregation, the ordered decision rules, and the result envelope
// composer. No LLM calls are made here.
package verdict

import (
	"fmt"

	"github.com/verisec/trustgate/internal/factors"
	"github.com/verisec/trustgate/internal/risk"
	"github.com/verisec/trustgate/internal/schema"
)

// Factor weights. They sum to 1.0 so the weighted sum stays in [0,1] before
// the risk penalty.
const (
	weightRoleCredibility    = 0.20
	weightProblemSeverity    = 0.15
	weightProblemSpecificity = 0.15
	weightTechnicalAccuracy  = 0.15
	weightThreatAlignment    = 0.15
	weightLanguageQuality    = 0.10
	weightUrgencyIndicators  = 0.05
	weightBioContext         = 0.05
)

// riskPenalty is the multiplier applied to confidence when any risk indicator
// was detected.
const riskPenalty = 0.7

// ComputeConfidence aggregates the eight factors into one confidence value.
// The risk penalty is applied after the weighted sum, then the result is
// clamped to [0,1].
func ComputeConfidence(f schema.Factors, riskIndicators []string) float64 {
	confidence := f.RoleCredibility*weightRoleCredibility +
		f.ProblemSeverity*weightProblemSeverity +
		f.ProblemSpecificity*weightProblemSpecificity +
		f.TechnicalAccuracy*weightTechnicalAccuracy +
		f.ThreatAlignment*weightThreatAlignment +
		f.LanguageQuality*weightLanguageQuality +
		f.UrgencyIndicators*weightUrgencyIndicators +
		f.BioContext*weightBioContext

	if len(riskIndicators) > 0 {
		confidence *= riskPenalty
	}

	return clamp01(confidence)
}

// Decide applies the decision rules to the factors and aggregate confidence.
//
// Rules (in order of precedence):
//  1. Low-trust role category AND vague threat → non_verified
//  2. Real threat AND professional role → verified
//  3. Real threat AND confidence ≥ 0.5 → verified
//  4. Otherwise → verified iff confidence ≥ 0.55
//
// The policy is deliberately lenient: a credible role or a concrete, severe
// threat passes even with a mediocre aggregate score. Only the combination of
// a clearly unrelated or junior role with a vague complaint is rejected
// outright.
func Decide(role string, f schema.Factors, confidence float64) schema.Decision {
	lowTrustCategory := factors.LowTrustRole(role)
	realThreat := f.ProblemSeverity >= 0.5 || f.ProblemSpecificity >= 0.5
	professionalRole := f.RoleCredibility >= 0.5
	vagueThreat := f.ProblemSeverity < 0.4 && f.ProblemSpecificity < 0.4

	// Rule 1: unrelated/junior role with nothing concrete behind it.
	if lowTrustCategory && vagueThreat {
		return schema.DecisionNonVerified
	}

	// Rule 2: concrete threat from a credible role.
	if realThreat && professionalRole {
		return schema.DecisionVerified
	}

	// Rule 3: concrete threat carries a weak role if the aggregate holds up.
	if realThreat && confidence >= 0.5 {
		return schema.DecisionVerified
	}

	// Rule 4: aggregate threshold.
	if confidence >= 0.55 {
		return schema.DecisionVerified
	}
	return schema.DecisionNonVerified
}

// ScoreBin formats the reported ±0.05 range around confidence, both bounds
// clamped to [0,1].
func ScoreBin(confidence float64) string {
	low := clamp01(confidence - 0.05)
	high := clamp01(confidence + 0.05)
	return fmt.Sprintf("%.2f-%.2f", low, high)
}

// ReasonCodes derives the machine-readable tags explaining the decision.
// The list is never empty; it falls back to "standard_verification".
func ReasonCodes(f schema.Factors, riskIndicators []string) []string {
	var codes []string
	if f.RoleCredibility >= 0.7 {
		codes = append(codes, "credible_role")
	}
	if f.ProblemSeverity >= 0.7 {
		codes = append(codes, "high_severity_concern")
	}
	if f.TechnicalAccuracy >= 0.7 {
		codes = append(codes, "technical_accuracy")
	}
	if f.ThreatAlignment >= 0.7 {
		codes = append(codes, "threat_alignment")
	}
	if f.BioContext >= 0.7 {
		codes = append(codes, "bio_context_relevant")
	}
	if len(riskIndicators) > 0 {
		codes = append(codes, "risk_indicators_detected")
	}
	if len(codes) == 0 {
		codes = append(codes, "standard_verification")
	}
	return codes
}

// Level maps confidence to the coarse access tier.
func Level(confidence float64) schema.VerificationLevel {
	switch {
	case confidence >= 0.85:
		return schema.LevelPremium
	case confidence >= 0.70:
		return schema.LevelEnhanced
	default:
		return schema.LevelBasic
	}
}

// Recommendations returns the advisory strings for weak factors, in fixed
// order. At most five are produced.
func Recommendations(f schema.Factors, riskIndicators []string) []string {
	var recs []string
	if f.RoleCredibility < 0.5 {
		recs = append(recs, "Consider providing more specific role and organization details")
	}
	if f.ProblemSpecificity < 0.5 {
		recs = append(recs, "Provide more detailed description of the security concern")
	}
	if f.TechnicalAccuracy < 0.5 {
		recs = append(recs, "Include technical details such as affected systems or error messages")
	}
	if len(riskIndicators) > 0 {
		recs = append(recs, "Review submission for suspicious patterns")
	}
	if f.BioContext < 0.3 {
		recs = append(recs, "Clarify biological/biotech context if applicable")
	}
	return recs
}

// Analyze runs the full heuristic decision path for one request: factor
// extraction, risk detection, confidence aggregation, the decision rules, and
// envelope composition. It is a pure function of its input and always
// produces a result.
func Analyze(req schema.Request) schema.VerificationResult {
	f := factors.Extract(req)
	riskIndicators := risk.Detect(req.CombinedText())
	confidence := ComputeConfidence(f, riskIndicators)
	decision := Decide(req.Role, f, confidence)

	return schema.VerificationResult{
		Decision:          decision,
		Confidence:        confidence,
		ScoreBin:          ScoreBin(confidence),
		ReasonCodes:       ReasonCodes(f, riskIndicators),
		Factors:           f,
		RiskIndicators:    riskIndicators,
		VerificationLevel: Level(confidence),
		Recommendations:   Recommendations(f, riskIndicators),
	}
}

// clamp01 clamps v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
