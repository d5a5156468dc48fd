// Package triage implements the clinical risk classification used by the
// review dashboard: additive scoring over vital-sign readings and keyword
// matching over free-text symptom reports. It is pure computation with no
// storage dependencies.
package triage

// Tier is an ordinal risk level. Higher values indicate higher urgency.
type Tier int

const (
	TierNormal Tier = iota
	TierModerate
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "High"
	case TierModerate:
		return "Moderate"
	default:
		return "Normal"
	}
}

// MarshalJSON renders the tier as its display string.
func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// MaxTier returns the more urgent of two tiers.
func MaxTier(a, b Tier) Tier {
	if a > b {
		return a
	}
	return b
}
