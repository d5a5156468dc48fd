package triage

import (
	"strconv"
	"strings"
)

// VitalsReading carries the raw values captured on the patient side. Values
// stay free-text end to end; anything unparseable simply contributes no
// points.
type VitalsReading struct {
	BloodPressure string `json:"blood_pressure"`
	HeartRate     string `json:"heart_rate"`
	Temperature   string `json:"temperature"`
}

// VitalsAssessment is the scored outcome for a reading.
type VitalsAssessment struct {
	Score int  `json:"score"`
	Tier  Tier `json:"tier"`
}

const (
	tempHighF     = 103.0
	tempElevatedF = 100.4

	hrHigh     = 120
	hrLow      = 50
	hrElevated = 100

	sysHigh     = 180
	sysElevated = 140
	diaHigh     = 120
	diaElevated = 90

	scoreHigh     = 6
	scoreModerate = 3
)

// ClassifyVitals scores a reading and maps the total to a tier. Scoring is
// additive per vital sign and never errors: malformed input counts as zero.
func ClassifyVitals(r VitalsReading) VitalsAssessment {
	score := 0

	temp := parseNum(r.Temperature)
	switch {
	case temp >= tempHighF:
		score += 3
	case temp >= tempElevatedF:
		score += 2
	}

	hr := parseNum(r.HeartRate)
	switch {
	case hr >= hrHigh || (hr > 0 && hr < hrLow):
		score += 3
	case hr >= hrElevated:
		score += 2
	}

	sys, dia := ParseBloodPressure(r.BloodPressure)
	switch {
	case sys >= sysHigh || dia >= diaHigh:
		score += 3
	case sys >= sysElevated || dia >= diaElevated:
		score += 2
	}

	a := VitalsAssessment{Score: score}
	switch {
	case score >= scoreHigh:
		a.Tier = TierHigh
	case score >= scoreModerate:
		a.Tier = TierModerate
	default:
		a.Tier = TierNormal
	}
	return a
}

// ParseBloodPressure splits a "SYS/DIA" string into its numeric parts.
// Malformed input yields 0/0.
func ParseBloodPressure(bp string) (sys, dia int) {
	parts := strings.SplitN(bp, "/", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	sys = int(parseNum(parts[0]))
	dia = int(parseNum(parts[1]))
	return sys, dia
}

// ClassifySymptoms matches a free-text report against the rule table.
// Matching is case-insensitive substring search; a high match wins over any
// moderate match. Empty or whitespace-only text is Normal.
func ClassifySymptoms(text string, rules *RuleTable) Tier {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || rules == nil {
		return TierNormal
	}
	return rules.Match(strings.ToLower(trimmed))
}

func parseNum(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
