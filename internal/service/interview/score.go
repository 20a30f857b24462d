package interview

import (
	"math"
	"strings"

	"github.com/hireloop/backend/internal/model/interview"
)

// RunningAverage recomputes the per-dimension arithmetic mean over every
// scored exchange so far, rounded to one decimal. It is recomputed from
// scratch after each sample rather than incrementally mutated.
func RunningAverage(exchanges []interview.Exchange) interview.RunningScore {
	if len(exchanges) == 0 {
		return interview.RunningScore{}
	}

	var technical, design, communication float64
	for _, ex := range exchanges {
		technical += ex.Score.Technical
		design += ex.Score.Design
		communication += ex.Score.Communication
	}

	n := float64(len(exchanges))
	return interview.RunningScore{
		Technical:     round1(technical / n),
		Design:        round1(design / n),
		Communication: round1(communication / n),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RecommendationPolicy derives the hiring verdict from the final running
// score. It is a named, swappable policy.
type RecommendationPolicy interface {
	Name() string
	Recommend(final interview.RunningScore) interview.Recommendation
}

// CombinedMeanPolicy averages the three dimensions together and thresholds
// the result: >=7 Hire, >=5 Borderline, otherwise No-Hire.
type CombinedMeanPolicy struct{}

func (CombinedMeanPolicy) Name() string { return "combined-mean" }

func (CombinedMeanPolicy) Recommend(final interview.RunningScore) interview.Recommendation {
	mean := (final.Technical + final.Design + final.Communication) / 3
	switch {
	case mean >= 7:
		return interview.RecommendHire
	case mean >= 5:
		return interview.RecommendBorderline
	default:
		return interview.RecommendNoHire
	}
}

// normalizeRecommendation maps free-form capability output onto the closed
// verdict set, falling back to the policy when the output is unrecognizable.
func normalizeRecommendation(raw string, final interview.RunningScore, policy RecommendationPolicy) interview.Recommendation {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hire":
		return interview.RecommendHire
	case "borderline":
		return interview.RecommendBorderline
	case "no-hire", "no hire", "nohire":
		return interview.RecommendNoHire
	default:
		return policy.Recommend(final)
	}
}
