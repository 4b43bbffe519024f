package llm

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/verisec/trustgate/internal/profile"
	"github.com/verisec/trustgate/internal/schema"
)

// mockGenerator returns a canned response or error and records the prompt.
type mockGenerator struct {
	response string
	err      error
	prompt   string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	m.prompt = prompt
	return m.response, m.err
}

func crossCheckWith(response string, err error) (*CrossCheck, *mockGenerator) {
	gen := &mockGenerator{response: response, err: err}
	return NewCrossCheck(gen, DefaultOptions), gen
}

func TestCrossCheck_ValidJSON(t *testing.T) {
	cc, _ := crossCheckWith(`{"decision":"verified","score_bin":"0.70-0.80","reason_codes":["credible_role"]}`, nil)
	got := cc.Analyze(context.Background(), "ransomware on the build farm", nil, profile.Profile{})

	want := schema.CrossCheckResult{
		Decision:    schema.DecisionVerified,
		ScoreBin:    "0.70-0.80",
		ReasonCodes: []string{"credible_role"},
		SimilarCVEs: []schema.SimilarCVE{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze = %+v, want %+v", got, want)
	}
}

func TestCrossCheck_FencedJSON(t *testing.T) {
	cc, _ := crossCheckWith("```json\n{\"decision\":\"verified\",\"score_bin\":\"0.60-0.70\",\"reason_codes\":[\"x\"]}\n```", nil)
	got := cc.Analyze(context.Background(), "text", nil, profile.Profile{})

	if got.Decision != schema.DecisionVerified {
		t.Errorf("decision = %q, want verified", got.Decision)
	}
	if got.ScoreBin != "0.60-0.70" {
		t.Errorf("score_bin = %q, want 0.60-0.70", got.ScoreBin)
	}
}

func TestCrossCheck_UnparsableOutput(t *testing.T) {
	matches := []schema.ThreatMatch{
		{ID: "CVE-2024-0001", Score: 0.8, Excerpt: "a"},
		{ID: "CVE-2024-0002", Score: 0.8, Excerpt: "b"},
	}
	cc, _ := crossCheckWith("I am sorry, I cannot answer that.", nil)
	got := cc.Analyze(context.Background(), "text", matches, profile.Profile{})

	if got.Decision != schema.DecisionVerified {
		t.Errorf("decision = %q, want verified (avg 0.8 > 0.7)", got.Decision)
	}
	if got.ScoreBin != "0.80-0.90" {
		t.Errorf("score_bin = %q, want 0.80-0.90", got.ScoreBin)
	}
	wantCodes := []string{"llm_parse_failed", "using_similarity_fallback"}
	if !reflect.DeepEqual(got.ReasonCodes, wantCodes) {
		t.Errorf("reason_codes = %v, want %v", got.ReasonCodes, wantCodes)
	}
}

func TestCrossCheck_FallbackBoundary(t *testing.T) {
	// Mean score exactly 0.7 is not above the threshold.
	matches := []schema.ThreatMatch{{ID: "CVE-X", Score: 0.7}}
	cc, _ := crossCheckWith("not json", nil)
	got := cc.Analyze(context.Background(), "text", matches, profile.Profile{})

	if got.Decision != schema.DecisionNonVerified {
		t.Errorf("decision = %q, want non_verified at avg exactly 0.7", got.Decision)
	}
}

func TestCrossCheck_GeneratorError(t *testing.T) {
	cc, _ := crossCheckWith("", errors.New("connection refused"))
	got := cc.Analyze(context.Background(), "text", nil, profile.Profile{})

	if got.Decision != schema.DecisionNonVerified {
		t.Errorf("decision = %q, want non_verified", got.Decision)
	}
	if got.ScoreBin != "0.00-0.10" {
		t.Errorf("score_bin = %q, want 0.00-0.10 with no matches", got.ScoreBin)
	}
	wantCodes := []string{"llm_parse_failed", "using_similarity_fallback"}
	if !reflect.DeepEqual(got.ReasonCodes, wantCodes) {
		t.Errorf("reason_codes = %v, want %v", got.ReasonCodes, wantCodes)
	}
}

func TestCrossCheck_FallbackBinClamped(t *testing.T) {
	matches := []schema.ThreatMatch{{ID: "CVE-X", Score: 0.97}}
	cc, _ := crossCheckWith("not json", nil)
	got := cc.Analyze(context.Background(), "text", matches, profile.Profile{})

	if got.ScoreBin != "0.97-1.00" {
		t.Errorf("score_bin = %q, want upper bound clamped to 1.00", got.ScoreBin)
	}
}

func TestCrossCheck_EmptyObjectFilled(t *testing.T) {
	matches := []schema.ThreatMatch{{ID: "CVE-X", Score: 0.5}}
	cc, _ := crossCheckWith("{}", nil)
	got := cc.Analyze(context.Background(), "text", matches, profile.Profile{})

	if got.Decision != schema.DecisionNonVerified {
		t.Errorf("decision = %q, want non_verified default", got.Decision)
	}
	if got.ScoreBin != "0.50-0.60" {
		t.Errorf("score_bin = %q, want similarity default 0.50-0.60", got.ScoreBin)
	}
	if !reflect.DeepEqual(got.ReasonCodes, []string{"analysis_incomplete"}) {
		t.Errorf("reason_codes = %v, want [analysis_incomplete]", got.ReasonCodes)
	}
}

func TestCrossCheck_InvalidDecisionForced(t *testing.T) {
	cc, _ := crossCheckWith(`{"decision":"maybe","score_bin":"0.40-0.50","reason_codes":["x"]}`, nil)
	got := cc.Analyze(context.Background(), "text", nil, profile.Profile{})

	if got.Decision != schema.DecisionNonVerified {
		t.Errorf("decision = %q, want non_verified for unknown enum value", got.Decision)
	}
	if got.ScoreBin != "0.40-0.50" {
		t.Errorf("score_bin = %q, other fields must be preserved", got.ScoreBin)
	}
}

func TestCrossCheck_SimilarCVEsCappedAndTruncated(t *testing.T) {
	long := strings.Repeat("x", 250)
	var matches []schema.ThreatMatch
	for i := 0; i < 7; i++ {
		matches = append(matches, schema.ThreatMatch{ID: "CVE-2024-000" + string(rune('0'+i)), Score: 0.9, Excerpt: long})
	}
	cc, _ := crossCheckWith(`{"decision":"verified","score_bin":"0.8-0.9","reason_codes":["x"]}`, nil)
	got := cc.Analyze(context.Background(), "text", matches, profile.Profile{})

	if len(got.SimilarCVEs) != 5 {
		t.Fatalf("similar_cves len = %d, want 5", len(got.SimilarCVEs))
	}
	excerpt := got.SimilarCVEs[0].Excerpt
	if len(excerpt) != 203 || !strings.HasSuffix(excerpt, "...") {
		t.Errorf("excerpt len = %d suffix %q, want 200 chars plus ellipsis", len(excerpt), excerpt[len(excerpt)-3:])
	}
}

func TestCrossCheck_PromptContents(t *testing.T) {
	matches := []schema.ThreatMatch{{ID: "CVE-2024-1111", Score: 0.823, Excerpt: "heap overflow"}}
	prof := profile.Profile{PromptAddendum: "Weigh biosecurity context heavily."}
	cc, gen := crossCheckWith(`{"decision":"verified"}`, nil)
	cc.Analyze(context.Background(), "suspicious sequencing traffic", matches, prof)

	for _, want := range []string{
		"- doc:CVE-2024-1111 chunk:0 score:0.823",
		"Weigh biosecurity context heavily.",
		"Query: suspicious sequencing traffic",
		"Return only valid JSON, no other text.",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestStripMarkdownFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"backtick fence with tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"backtick fence no tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"tilde fence", "~~~json\n{\"a\":1}\n~~~", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"truncated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"empty fence body", "```json\n```", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := stripMarkdownFences(c.in); got != c.want {
				t.Errorf("stripMarkdownFences(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}
