// Package render produces output from a schema.VerificationResult.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verisec/trustgate/internal/schema"
)

// RenderJSON produces a pretty-printed JSON representation of the result.
// The output round-trips through json.Unmarshal back to an equal result.
func RenderJSON(result *schema.VerificationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderMarkdown produces a Markdown summary of the result, suitable for
// terminal output or pasting into a review thread.
func RenderMarkdown(result *schema.VerificationResult) string {
	if result == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("## TrustGate Verification\n\n")
	fmt.Fprintf(&sb, "**Decision:** %s  \n", result.Decision)
	fmt.Fprintf(&sb, "**Confidence:** %.2f (bin %s)  \n", result.Confidence, result.ScoreBin)
	fmt.Fprintf(&sb, "**Level:** %s\n\n", result.VerificationLevel)

	sb.WriteString("## Factors\n\n")
	sb.WriteString("| Factor | Score |\n")
	sb.WriteString("|---|---|\n")
	f := result.Factors
	rows := []struct {
		name  string
		score float64
	}{
		{"role_credibility", f.RoleCredibility},
		{"problem_severity", f.ProblemSeverity},
		{"problem_specificity", f.ProblemSpecificity},
		{"technical_accuracy", f.TechnicalAccuracy},
		{"threat_alignment", f.ThreatAlignment},
		{"language_quality", f.LanguageQuality},
		{"urgency_indicators", f.UrgencyIndicators},
		{"bio_context", f.BioContext},
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %s | %.2f |\n", r.name, r.score)
	}
	sb.WriteString("\n")

	sb.WriteString("## Reason Codes\n\n")
	for _, code := range result.ReasonCodes {
		fmt.Fprintf(&sb, "- `%s`\n", code)
	}
	sb.WriteString("\n")

	if len(result.RiskIndicators) > 0 {
		sb.WriteString("## Risk Indicators\n\n")
		for _, ind := range result.RiskIndicators {
			fmt.Fprintf(&sb, "- `%s`\n", ind)
		}
		sb.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&sb, "- %s\n", mdEscape(rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
