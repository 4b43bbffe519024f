package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/verisec/trustgate/internal/profile"
	"github.com/verisec/trustgate/internal/schema"
)

// CrossCheck asks the generation oracle for a verdict on the same inputs the
// heuristic engine sees, and degrades to a pure similarity heuristic whenever
// the oracle's output cannot be used. It never returns an error: a decision
// is always produced.
type CrossCheck struct {
	gen  Generator
	opts Options
}

// NewCrossCheck wires a cross-check over the given generator.
func NewCrossCheck(gen Generator, opts Options) *CrossCheck {
	return &CrossCheck{gen: gen, opts: opts}
}

// maxSimilarCVEs caps the matches echoed back to the caller.
const maxSimilarCVEs = 5

// excerptLimit caps the length of each echoed match excerpt.
const excerptLimit = 200

// rawVerdict is the JSON object the oracle is instructed to return. Zero
// values mark absent fields, which are filled with deterministic defaults.
type rawVerdict struct {
	Decision    string   `json:"decision"`
	ScoreBin    string   `json:"score_bin"`
	ReasonCodes []string `json:"reason_codes"`
}

// Analyze prompts the oracle and shapes its output into a CrossCheckResult.
// Call failures and unparsable output both take the similarity fallback;
// parsable output with missing fields is repaired in place.
func (c *CrossCheck) Analyze(ctx context.Context, text string, matches []schema.ThreatMatch, prof profile.Profile) schema.CrossCheckResult {
	prompt := buildVerdictPrompt(text, matches, prof.PromptAddendum)

	raw, err := c.gen.Generate(ctx, prompt, c.opts)
	if err != nil {
		// Timeouts and transport failures are treated exactly like
		// unparsable output: fall back, never surface.
		return c.fallback(matches)
	}

	var verdict rawVerdict
	if err := json.Unmarshal([]byte(stripMarkdownFences(raw)), &verdict); err != nil {
		return c.fallback(matches)
	}

	if verdict.Decision == "" {
		verdict.Decision = string(schema.DecisionNonVerified)
	}
	if verdict.ScoreBin == "" {
		verdict.ScoreBin = similarityScoreBin(matches)
	}
	if len(verdict.ReasonCodes) == 0 {
		verdict.ReasonCodes = []string{"analysis_incomplete"}
	}

	decision := schema.Decision(verdict.Decision)
	if !decision.Valid() {
		decision = schema.DecisionNonVerified
	}

	return schema.CrossCheckResult{
		Decision:    decision,
		ScoreBin:    verdict.ScoreBin,
		ReasonCodes: verdict.ReasonCodes,
		SimilarCVEs: similarCVEs(matches),
	}
}

// fallback synthesizes a verdict from the mean similarity score alone.
func (c *CrossCheck) fallback(matches []schema.ThreatMatch) schema.CrossCheckResult {
	avg := meanScore(matches)
	decision := schema.DecisionNonVerified
	if avg > 0.7 {
		decision = schema.DecisionVerified
	}
	return schema.CrossCheckResult{
		Decision:    decision,
		ScoreBin:    similarityScoreBin(matches),
		ReasonCodes: []string{"llm_parse_failed", "using_similarity_fallback"},
		SimilarCVEs: similarCVEs(matches),
	}
}

// similarityScoreBin derives a score range from the mean similarity score.
// The upper bound is clamped so both bounds stay within [0,1].
func similarityScoreBin(matches []schema.ThreatMatch) string {
	avg := meanScore(matches)
	high := avg + 0.1
	if high > 1.0 {
		high = 1.0
	}
	return fmt.Sprintf("%.2f-%.2f", avg, high)
}

func meanScore(matches []schema.ThreatMatch) float64 {
	if len(matches) == 0 {
		return 0.0
	}
	var sum float64
	for _, m := range matches {
		sum += m.Score
	}
	return sum / float64(len(matches))
}

// similarCVEs echoes up to maxSimilarCVEs matches back to the caller with
// excerpts truncated for transport.
func similarCVEs(matches []schema.ThreatMatch) []schema.SimilarCVE {
	n := len(matches)
	if n > maxSimilarCVEs {
		n = maxSimilarCVEs
	}
	out := make([]schema.SimilarCVE, 0, n)
	for _, m := range matches[:n] {
		excerpt := m.Excerpt
		if len(excerpt) > excerptLimit {
			excerpt = excerpt[:excerptLimit] + "..."
		}
		out = append(out, schema.SimilarCVE{ID: m.ID, Score: m.Score, Excerpt: excerpt})
	}
	return out
}

// buildVerdictPrompt assembles the oracle instruction: the decision rules in
// prose, the similarity context, and the raw submission text.
func buildVerdictPrompt(text string, matches []schema.ThreatMatch, addendum string) string {
	var sb strings.Builder

	sb.WriteString("You are a trust verification analyst gating access to detailed CVE and threat intelligence.\n\n")
	sb.WriteString("Decide whether the submission below is a trustworthy, human-authored security concern.\n")
	sb.WriteString("Apply these rules:\n")
	sb.WriteString("- A credible security, biotech, or IT role reporting a concrete threat is verified.\n")
	sb.WriteString("- A concrete, specific threat is verified even when the role is weak.\n")
	sb.WriteString("- A student or clearly unrelated occupation with a vague complaint is non_verified.\n")
	sb.WriteString("- Spam, scams, and low-effort submissions are non_verified.\n\n")

	if addendum != "" {
		sb.WriteString(addendum)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Return a JSON object with:\n")
	sb.WriteString("- decision: either \"verified\" or \"non_verified\"\n")
	sb.WriteString("- score_bin: a range like \"0.5-0.7\"\n")
	sb.WriteString("- reason_codes: an array of short reason strings\n\n")

	if len(matches) > 0 {
		sb.WriteString("Context (similar known vulnerabilities):\n")
		for i, m := range matches {
			fmt.Fprintf(&sb, "- doc:%s chunk:%d score:%.3f\n", m.ID, i, m.Score)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Query: ")
	sb.WriteString(text)
	sb.WriteString("\n\nReturn only valid JSON, no other text.")

	return sb.String()
}

// fenceRe matches a markdown code fence block (``` or ~~~) with an optional
// language tag and captures the content between the fences.
// Both backtick and tilde fence styles are supported. The content group uses
// `.*?` (not `.+?`) to allow empty bodies inside fences.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line (no closing fence required).
// Used to strip orphaned opening fences from truncated responses.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// stripMarkdownFences removes leading/trailing markdown code fences that LLMs
// sometimes wrap around JSON output (e.g., "```json\n...\n```").
// If only an opening fence is present (e.g., the response was truncated before
// the closing fence), the opening line is stripped so that the JSON content can
// still be parsed.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	// Handle truncated fenced responses: strip the opening fence line only.
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}
