// Package profile defines verification profiles that modulate cross-check
// prompt construction. Each profile provides a PromptAddendum that is
// appended to the instruction sent to the generation oracle.
package profile

import "fmt"

// Profile describes a verification strategy.
type Profile struct {
	Name           string
	Description    string
	PromptAddendum string
}

// builtins is the registry of built-in profiles keyed by name.
var builtins = map[string]Profile{
	"general": {
		Name:        "general",
		Description: "Default profile; weighs role and threat evidence equally.",
		PromptAddendum: "Weigh the claimed role and the described threat equally. When the " +
			"submission is ambiguous, prefer non_verified and say why in reason_codes.",
	},
	"bio-research": {
		Name:        "bio-research",
		Description: "Biotech/research focus; credits biological context heavily.",
		PromptAddendum: "The service protects biotech and life-science threat intelligence. " +
			"Credit genomic, laboratory, clinical, and biosafety context as strong evidence of a " +
			"legitimate submitter. Generic IT complaints without biological context deserve " +
			"extra scrutiny.",
	},
	"strict": {
		Name:        "strict",
		Description: "Strict gating; verifies only concrete, corroborated threats.",
		PromptAddendum: "Be strict. Verify only submissions with a concrete, technically " +
			"specific threat that is corroborated by the similarity context. Treat urgency " +
			"language and unsupported claims of seniority as non-evidence.",
	},
}

// Load returns the named built-in profile or an error if the name is unknown.
func Load(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile: unknown profile %q (available: general, bio-research, strict)", name)
	}
	return p, nil
}
