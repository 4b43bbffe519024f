package factors

import (
	"testing"

	"github.com/verisec/trustgate/internal/schema"
)

func TestRoleCredibility(t *testing.T) {
	cases := []struct {
		role string
		want float64
	}{
		{"", 0.4},
		{"   ", 0.4},
		{"CISO at Acme Biotech", 0.9},              // credible list
		{"Threat Intelligence Analyst", 0.9},       // credible list
		{"undergraduate student", 0.3},             // student list
		{"waiter", 0.2},                            // non-field list
		{"Director at Initech", 0.8},               // org cue + title cue
		{"software developer", 0.6},                // tech cue alone
		{"senior manager", 0.6},                    // title cue alone
		{"freelancer", 0.4},                        // no cue at all
	}
	for _, c := range cases {
		if got := RoleCredibility(c.role); got != c.want {
			t.Errorf("RoleCredibility(%q) = %v, want %v", c.role, got, c.want)
		}
	}
}

func TestRoleRuleScore_FullRubric(t *testing.T) {
	// All five documented rubric values must stay declared, including the
	// org-alone tier that cannot fire at runtime.
	rubric := map[string]float64{
		"credible":             0.9,
		"student":              0.3,
		"non_field":            0.2,
		"org_and_title":        0.8,
		"org_or_title_or_tech": 0.6,
		"org_alone":            0.5,
	}
	for name, want := range rubric {
		got, ok := RoleRuleScore(name)
		if !ok {
			t.Errorf("RoleRuleScore(%q): rule missing", name)
			continue
		}
		if got != want {
			t.Errorf("RoleRuleScore(%q) = %v, want %v", name, got, want)
		}
	}
	if _, ok := RoleRuleScore("no_such_rule"); ok {
		t.Error("RoleRuleScore(no_such_rule) reported a rule")
	}
}

func TestProblemSeverity(t *testing.T) {
	cases := []struct {
		problem string
		want    float64
	}{
		{"", 0.0},
		{"our printer is out of toner", 0.3},
		{"we detected a breach yesterday", 0.5},
		{"breach followed by ransomware deployment", 0.7},
		{"breach, ransomware, and phishing emails observed", 0.9},
	}
	for _, c := range cases {
		if got := ProblemSeverity(c.problem); got != c.want {
			t.Errorf("ProblemSeverity(%q) = %v, want %v", c.problem, got, c.want)
		}
	}
}

func TestProblemSpecificity(t *testing.T) {
	word := "word "
	cases := []struct {
		words int
		want  float64
	}{
		{0, 0.0},
		{5, 0.3},
		{15, 0.5},
		{30, 0.7},
		{50, 0.9},
	}
	for _, c := range cases {
		problem := ""
		for i := 0; i < c.words; i++ {
			problem += word
		}
		if got := ProblemSpecificity(problem); got != c.want {
			t.Errorf("ProblemSpecificity(%d words) = %v, want %v", c.words, got, c.want)
		}
	}
}

func TestTechnicalAccuracy(t *testing.T) {
	cases := []struct {
		problem string
		want    float64
	}{
		{"", 0.0},
		{"my mouse stopped moving", 0.2},
		{"matches CVE-2024-1111", 0.5},
		{"CVE-2024-1111 scored by CVSS", 0.7},
		{"CVE-2024-1111 with CVSS 9.8 over TLS", 0.9},
	}
	for _, c := range cases {
		if got := TechnicalAccuracy(c.problem); got != c.want {
			t.Errorf("TechnicalAccuracy(%q) = %v, want %v", c.problem, got, c.want)
		}
	}
}

func TestThreatAlignment(t *testing.T) {
	mk := func(scores ...float64) []schema.ThreatMatch {
		var ms []schema.ThreatMatch
		for _, s := range scores {
			ms = append(ms, schema.ThreatMatch{ID: "CVE-X", Score: s})
		}
		return ms
	}
	cases := []struct {
		matches []schema.ThreatMatch
		want    float64
	}{
		{nil, 0.0},
		{mk(0.8, 0.9), 0.9},  // avg 0.85 > 0.7
		{mk(0.6), 0.7},       // avg 0.6 > 0.5
		{mk(0.4, 0.4), 0.5},  // avg 0.4 > 0.3
		{mk(0.1, 0.2), 0.2},  // avg 0.15
		{mk(0.7), 0.7},       // boundary: 0.7 is not > 0.7
	}
	for _, c := range cases {
		if got := ThreatAlignment(c.matches); got != c.want {
			t.Errorf("ThreatAlignment(%v) = %v, want %v", c.matches, got, c.want)
		}
	}
}

func TestLanguageQuality(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"", 0.0},
		{"   ", 0.0},
		{"WIN LOTTERY NOW!!!!", 0.2},                  // shouting and excessive punctuation
		{"AAAA BBBB CCCC", 0.2},                       // shouting alone
		{"fine. but loud!!!! very loud!!!!", 0.2},     // excessive punctuation alone
		{"This is a proper sentence.", 0.8},           // caps and punctuation
		{"Has caps but no terminal punctuation", 0.5}, // caps alone
		{"ends with a period.", 0.5},                  // punctuation alone
		{"no caps no punctuation at all", 0.3},
	}
	for _, c := range cases {
		if got := LanguageQuality(c.text); got != c.want {
			t.Errorf("LanguageQuality(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestUrgencyIndicators(t *testing.T) {
	cases := []struct {
		problem string
		want    float64
	}{
		{"", 0.0},
		{"act now before it expires soon", 0.1}, // scam urgency overrides
		{"critical outage, act now", 0.1},       // scam beats legitimate
		{"critical outage in production", 0.7},
		{"nothing special going on", 0.5},
	}
	for _, c := range cases {
		if got := UrgencyIndicators(c.problem); got != c.want {
			t.Errorf("UrgencyIndicators(%q) = %v, want %v", c.problem, got, c.want)
		}
	}
}

func TestBioContext(t *testing.T) {
	cases := []struct {
		role, problem string
		want          float64
	}{
		{"", "", 0.0},
		{"plumber", "leaky faucet", 0.3},
		{"lab tech", "dna contamination", 0.5}, // only "dna" matches
		{"clinical trial coordinator", "pathogen sample mislabeled", 0.9},
		{"", "genomic dna sequencing leak", 0.9},
	}
	for _, c := range cases {
		if got := BioContext(c.role, c.problem); got != c.want {
			t.Errorf("BioContext(%q, %q) = %v, want %v", c.role, c.problem, got, c.want)
		}
	}
}

func TestLowTrustRole(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"", false},
		{"undergraduate student", true},
		{"intern", true},
		{"musician", true},
		{"CISO", false},
		{"security engineer", false},
	}
	for _, c := range cases {
		if got := LowTrustRole(c.role); got != c.want {
			t.Errorf("LowTrustRole(%q) = %v, want %v", c.role, got, c.want)
		}
	}
}

func TestExtract_AllFactorsPopulated(t *testing.T) {
	req := schema.Request{
		Role:    "CISO at Acme Biotech",
		Problem: "We observed a breach with data exfiltration matching CVE-2024-1111.",
		Matches: []schema.ThreatMatch{{ID: "CVE-2024-1111", Score: 0.8}},
	}
	f := Extract(req)

	if f.RoleCredibility != 0.9 {
		t.Errorf("RoleCredibility = %v, want 0.9", f.RoleCredibility)
	}
	if f.ThreatAlignment != 0.9 {
		t.Errorf("ThreatAlignment = %v, want 0.9", f.ThreatAlignment)
	}
	for name, v := range map[string]float64{
		"role_credibility":    f.RoleCredibility,
		"problem_severity":    f.ProblemSeverity,
		"problem_specificity": f.ProblemSpecificity,
		"technical_accuracy":  f.TechnicalAccuracy,
		"threat_alignment":    f.ThreatAlignment,
		"language_quality":    f.LanguageQuality,
		"urgency_indicators":  f.UrgencyIndicators,
		"bio_context":         f.BioContext,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, out of [0,1]", name, v)
		}
	}
}
