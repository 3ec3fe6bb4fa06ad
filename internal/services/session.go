package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionService stores login sessions in Redis. A session maps a random
// token to the owning user's ID; the reverse mapping lets a new login
// invalidate the previous session so the 7-day timer always resets.
type SessionService struct {
	redis *redis.Client
}

func NewSessionService(client *redis.Client) *SessionService {
	return &SessionService{redis: client}
}

// Create issues a new session token for a user. Any existing session for the
// same user is invalidated first.
func (s *SessionService) Create(ctx context.Context, userID string) (string, error) {
	s.invalidateUserSessions(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + userID

	if err := s.redis.Set(ctx, sessionKey, userID, SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, userSessionKey, sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// Validate checks a session token and returns the user ID it belongs to.
func (s *SessionService) Validate(ctx context.Context, sessionToken string) (string, bool, error) {
	if sessionToken == "" {
		return "", false, nil
	}

	userID, err := s.redis.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if err != nil {
		// Missing or expired token is not an error, just unauthenticated
		return "", false, nil
	}
	return userID, true, nil
}

// Invalidate removes a session from Redis.
func (s *SessionService) Invalidate(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken
	userID, err := s.redis.Get(ctx, sessionKey).Result()
	if err == nil && userID != "" {
		s.redis.Del(ctx, UserSessionKeyPrefix+userID)
	}
	return s.redis.Del(ctx, sessionKey).Err()
}

// invalidateUserSessions removes the user's current session, if any.
func (s *SessionService) invalidateUserSessions(ctx context.Context, userID string) error {
	userSessionKey := UserSessionKeyPrefix + userID

	sessionToken, err := s.redis.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		s.redis.Del(ctx, SessionKeyPrefix+sessionToken)
	}
	return s.redis.Del(ctx, userSessionKey).Err()
}
