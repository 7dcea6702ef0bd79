package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type submissionState int

const (
	submissionIssued submissionState = iota
	submissionInFlight
	submissionDone
)

type submission struct {
	state     submissionState
	expiresAt time.Time
}

// SubmissionCache tracks the one-shot tokens rendered into dialog forms.
//
// A token can be claimed once; while its request is in flight, or after it
// succeeded, further claims fail. A failed request releases the token so the
// user can retry from the same form.
type SubmissionCache struct {
	mu     sync.Mutex
	tokens map[string]submission
	ttl    time.Duration
	now    func() time.Time
}

func NewSubmissionCache(ttl time.Duration) *SubmissionCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SubmissionCache{tokens: make(map[string]submission), ttl: ttl, now: time.Now}
}

// Issue mints a fresh token.
func (c *SubmissionCache) Issue() string {
	token := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictExpiredLocked()
	c.tokens[token] = submission{state: submissionIssued, expiresAt: c.now().Add(c.ttl)}
	return token
}

// Claim marks token in flight. It fails for unknown, expired, in-flight or used tokens.
func (c *SubmissionCache) Claim(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.tokens[token]
	if !ok || s.state != submissionIssued || c.now().After(s.expiresAt) {
		return false
	}
	s.state = submissionInFlight
	c.tokens[token] = s
	return true
}

// Release returns an in-flight token to the issued state after a failed attempt.
func (c *SubmissionCache) Release(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.tokens[token]; ok && s.state == submissionInFlight {
		s.state = submissionIssued
		c.tokens[token] = s
	}
}

// Complete marks token as used for good.
func (c *SubmissionCache) Complete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.tokens[token]; ok {
		s.state = submissionDone
		c.tokens[token] = s
	}
}

func (c *SubmissionCache) evictExpiredLocked() {
	now := c.now()
	for token, s := range c.tokens {
		if now.After(s.expiresAt) {
			delete(c.tokens, token)
		}
	}
}
