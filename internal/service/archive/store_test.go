package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/backend/internal/model/interview"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewFromClient(client, opts...), mr
}

func completedSession() *interview.Session {
	session := interview.NewSession(interview.Settings{
		Duration:     35 * time.Minute,
		MaxQuestions: 8,
		MaxFollowUps: 2,
	})
	session.SetResume("resume")
	session.SetJob("jd", "Backend Engineer")
	session.SetProfile(&interview.CandidateProfile{Seniority: interview.SenioritySenior})
	session.AppendExchange(interview.Exchange{
		Question: "Explain the CAP theorem.",
		Answer:   "You cannot have all three under partition.",
		Topic:    "Distributed Systems",
		Score:    interview.ScoreSample{Technical: 8, Design: 7, Communication: 9},
	}, interview.RunningScore{Technical: 8, Design: 7, Communication: 9})
	session.MarkEnded(time.Now().UTC(), &interview.FeedbackReport{
		Report:         "Strong candidate.",
		Recommendation: interview.RecommendHire,
		SkillRoadmap:   []string{"Practice estimation"},
		FinalScores:    interview.RunningScore{Technical: 8, Design: 7, Communication: 9},
	})
	return session
}

func TestStoreSaveAndLoadTranscript(t *testing.T) {
	store, _ := newTestStore(t)
	session := completedSession()

	require.NoError(t, store.SaveTranscript(context.Background(), session))

	got, err := store.LoadTranscript(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, session.ID, got.SessionID)
	assert.Equal(t, "Backend Engineer", got.Role)
	require.NotNil(t, got.Profile)
	assert.Equal(t, interview.SenioritySenior, got.Profile.Seniority)
	require.Len(t, got.Exchanges, 1)
	assert.Equal(t, "Explain the CAP theorem.", got.Exchanges[0].Question)
	assert.Equal(t, "Strong candidate.", got.Report)
	assert.Equal(t, string(interview.RecommendHire), got.Recommendation)
	assert.Equal(t, 8.0, got.FinalScores.Technical)
	assert.False(t, got.ArchivedAt.IsZero())
}

func TestStoreAppliesTTL(t *testing.T) {
	store, mr := newTestStore(t, WithTTL(time.Hour), WithPrefix("test:transcript:"))
	session := completedSession()

	require.NoError(t, store.SaveTranscript(context.Background(), session))

	key := "test:transcript:" + session.ID
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestStoreLoadMissingTranscript(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.LoadTranscript(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, interview.ErrSessionNotFound))
}
