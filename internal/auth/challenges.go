package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// ChallengeStore issues one-time sign-in nonces per public key. A challenge
// is consumed on use and expires if left unanswered.
type ChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]issuedChallenge
	ttl        time.Duration
	now        func() time.Time
}

type issuedChallenge struct {
	challenge string
	expiresAt time.Time
}

func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	return NewChallengeStoreWithNow(ttl, time.Now)
}

func NewChallengeStoreWithNow(ttl time.Duration, now func() time.Time) *ChallengeStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ChallengeStore{
		challenges: make(map[string]issuedChallenge),
		ttl:        ttl,
		now:        now,
	}
}

// Issue creates a fresh challenge for a public key, replacing any pending one.
func (s *ChallengeStore) Issue(publicKeyB64 string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	challenge := base64.StdEncoding.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()
	s.challenges[publicKeyB64] = issuedChallenge{
		challenge: challenge,
		expiresAt: s.now().Add(s.ttl),
	}
	return challenge, nil
}

// Consume checks that the presented challenge is the one issued for this
// public key, then invalidates it. A challenge can only be consumed once.
func (s *ChallengeStore) Consume(publicKeyB64, challenge string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	issued, ok := s.challenges[publicKeyB64]
	if !ok || issued.challenge != challenge || s.now().After(issued.expiresAt) {
		return false
	}
	delete(s.challenges, publicKeyB64)
	return true
}

func (s *ChallengeStore) evictExpiredLocked() {
	now := s.now()
	for key, issued := range s.challenges {
		if now.After(issued.expiresAt) {
			delete(s.challenges, key)
		}
	}
}
