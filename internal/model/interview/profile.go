package interview

import "strings"

// Seniority is the level the profile analysis detected from the resume.
type Seniority string

const (
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
)

// ParseSeniority normalizes a capability-provided level, defaulting to mid.
func ParseSeniority(raw string) Seniority {
	switch normalized := Seniority(strings.ToLower(strings.TrimSpace(raw))); normalized {
	case SeniorityJunior, SeniorityMid, SenioritySenior:
		return normalized
	default:
		return SeniorityMid
	}
}

// CandidateProfile is produced once by the profile-analysis capability and
// never mutated afterwards.
type CandidateProfile struct {
	Seniority  Seniority `json:"seniority"`
	Strengths  []string  `json:"strengths"`
	Gaps       []string  `json:"gaps"`
	FocusAreas []string  `json:"focus_areas"`
}
