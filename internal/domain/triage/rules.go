package triage

import "strings"

// Rule associates a lowercase keyword with the tier it escalates to.
type Rule struct {
	Keyword string `json:"keyword"`
	Tier    Tier   `json:"tier"`
}

// RuleTable holds the symptom keyword rules. Tables are built once at
// startup and treated as read-only afterwards, so they are safe for
// concurrent use.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable builds a table from explicit rules. Keywords are lowercased;
// empty keywords are dropped.
func NewRuleTable(rules ...Rule) *RuleTable {
	t := &RuleTable{}
	for _, r := range rules {
		kw := strings.ToLower(strings.TrimSpace(r.Keyword))
		if kw == "" {
			continue
		}
		t.rules = append(t.rules, Rule{Keyword: kw, Tier: r.Tier})
	}
	return t
}

// Rules returns a copy of the table contents.
func (t *RuleTable) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Match returns the highest tier of any rule whose keyword occurs as a
// substring of the (already lowercased) text, or TierNormal when nothing
// matches.
func (t *RuleTable) Match(lower string) Tier {
	tier := TierNormal
	for _, r := range t.rules {
		if r.Tier > tier && strings.Contains(lower, r.Keyword) {
			tier = r.Tier
		}
		if tier == TierHigh {
			break
		}
	}
	return tier
}

var defaultHighKeywords = []string{
	"chest pain", "breathless", "shortness of breath", "faint",
	"unconscious", "seizure", "stroke", "bleeding", "severe pain",
}

var defaultModerateKeywords = []string{
	"fever", "cough", "vomiting", "diarrhea", "dizziness",
	"headache", "infection", "weakness",
}

// DefaultRules returns the stock keyword table. Deployments that need
// different escalation keywords build their own table instead of editing
// classifier code.
func DefaultRules() *RuleTable {
	var rules []Rule
	for _, kw := range defaultHighKeywords {
		rules = append(rules, Rule{Keyword: kw, Tier: TierHigh})
	}
	for _, kw := range defaultModerateKeywords {
		rules = append(rules, Rule{Keyword: kw, Tier: TierModerate})
	}
	return NewRuleTable(rules...)
}
