package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hireloop/backend/internal/model/interview"
)

func scored(technical, design, communication float64) interview.Exchange {
	return interview.Exchange{Score: interview.ScoreSample{
		Technical:     technical,
		Design:        design,
		Communication: communication,
	}}
}

func TestRunningAverageEmpty(t *testing.T) {
	assert.Equal(t, interview.RunningScore{}, RunningAverage(nil))
}

func TestRunningAverage(t *testing.T) {
	got := RunningAverage([]interview.Exchange{
		scored(8, 7, 6),
		scored(7, 8, 9),
	})
	assert.Equal(t, interview.RunningScore{Technical: 7.5, Design: 7.5, Communication: 7.5}, got)
}

func TestRunningAverageRoundsToOneDecimal(t *testing.T) {
	got := RunningAverage([]interview.Exchange{
		scored(7, 5, 10),
		scored(7, 5, 10),
		scored(8, 6, 10),
	})
	assert.Equal(t, 7.3, got.Technical)
	assert.Equal(t, 5.3, got.Design)
	assert.Equal(t, 10.0, got.Communication)
}

func TestCombinedMeanPolicy(t *testing.T) {
	policy := CombinedMeanPolicy{}

	cases := []struct {
		name  string
		final interview.RunningScore
		want  interview.Recommendation
	}{
		{"strong scores", interview.RunningScore{Technical: 8, Design: 7.5, Communication: 7}, interview.RecommendHire},
		{"hire boundary", interview.RunningScore{Technical: 7, Design: 7, Communication: 7}, interview.RecommendHire},
		{"middling scores", interview.RunningScore{Technical: 6, Design: 5, Communication: 5}, interview.RecommendBorderline},
		{"borderline boundary", interview.RunningScore{Technical: 5, Design: 5, Communication: 5}, interview.RecommendBorderline},
		{"weak scores", interview.RunningScore{Technical: 4, Design: 4, Communication: 4.9}, interview.RecommendNoHire},
		{"zero scores", interview.RunningScore{}, interview.RecommendNoHire},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, policy.Recommend(tc.final))
		})
	}
}

func TestNormalizeRecommendation(t *testing.T) {
	policy := CombinedMeanPolicy{}
	final := interview.RunningScore{Technical: 6, Design: 6, Communication: 6}

	assert.Equal(t, interview.RecommendHire, normalizeRecommendation("Hire", final, policy))
	assert.Equal(t, interview.RecommendHire, normalizeRecommendation("  hire  ", final, policy))
	assert.Equal(t, interview.RecommendNoHire, normalizeRecommendation("No Hire", final, policy))
	assert.Equal(t, interview.RecommendNoHire, normalizeRecommendation("no-hire", final, policy))
	assert.Equal(t, interview.RecommendBorderline, normalizeRecommendation("borderline", final, policy))

	// Unrecognized output falls back to the policy verdict.
	assert.Equal(t, interview.RecommendBorderline, normalizeRecommendation("strong maybe", final, policy))
}
