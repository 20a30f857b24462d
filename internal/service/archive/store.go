package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hireloop/backend/internal/model/interview"
)

// Transcript is the archived shape of a completed, memory-opted-in session.
type Transcript struct {
	SessionID      string                      `json:"session_id"`
	Role           string                      `json:"role"`
	Profile        *interview.CandidateProfile `json:"profile,omitempty"`
	Exchanges      []interview.Exchange        `json:"exchanges"`
	FinalScores    interview.RunningScore      `json:"final_scores"`
	Report         string                      `json:"report,omitempty"`
	Recommendation string                      `json:"recommendation,omitempty"`
	SkillRoadmap   []string                    `json:"skill_roadmap,omitempty"`
	ArchivedAt     time.Time                   `json:"archived_at"`
}

// Store persists interview transcripts to Redis.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for archived transcripts.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for transcripts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis-backed archive.
func New(address, password string, db int, opts ...Option) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates an archive from an existing client.
func NewFromClient(client *redis.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "hireloop:transcript:",
		ttl:    0,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// SaveTranscript archives a completed session. Called by the state machine
// for memory-opted-in sessions only.
func (s *Store) SaveTranscript(ctx context.Context, session *interview.Session) error {
	transcript := Transcript{
		SessionID:   session.ID,
		Role:        session.Role(),
		Profile:     session.Profile(),
		Exchanges:   session.Exchanges(),
		FinalScores: session.Scores(),
		ArchivedAt:  time.Now().UTC(),
	}
	if report := session.Report(); report != nil {
		transcript.Report = report.Report
		transcript.Recommendation = string(report.Recommendation)
		transcript.SkillRoadmap = report.SkillRoadmap
		transcript.FinalScores = report.FinalScores
	}

	data, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save transcript to redis: %w", err)
	}
	return nil
}

// LoadTranscript retrieves an archived transcript.
func (s *Store) LoadTranscript(ctx context.Context, sessionID string) (*Transcript, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, interview.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load transcript from redis: %w", err)
	}

	transcript := &Transcript{}
	if err := json.Unmarshal([]byte(val), transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return transcript, nil
}
