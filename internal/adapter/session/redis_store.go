package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

const (
	sessionKeyPrefix  = "session:"
	flashKeyPrefix    = "flash:"
	returnToKeyPrefix = "returnto:"
)

// Flash is one user-visible message queued for the next rendered page.
type Flash struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
}

// Store issues and verifies session tokens. The token itself is a signed
// JWT carrying the user id and a session id (jti); the session id is
// registered in Redis so sessions can be revoked on logout and expire
// server-side. Flash messages and the post-login return URL live in Redis
// next to the session.
//
// Anonymous visitors get a session too (with an empty user id), so flash
// messages work before login.
type Store struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
	logger *logger.Logger
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// NewStore connects to Redis and verifies the connection.
func NewStore(addr, password string, db int, secret string, ttl time.Duration, log *logger.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Store{
		client: client,
		secret: []byte(secret),
		ttl:    ttl,
		logger: log.Named("SessionStore"),
	}, nil
}

// Issue creates a new session for the given user id (empty for anonymous)
// and returns the serialized token together with the session id.
func (s *Store) Issue(ctx context.Context, userID string) (token, sessionID string, err error) {
	sessionID = uuid.New().String()
	now := time.Now().UTC()

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, userID, s.ttl).Err(); err != nil {
		return "", "", fmt.Errorf("%w: failed to register session: %v", domain.ErrUpstream, err)
	}

	s.logger.Debug("Session issued", zap.String("session_id", sessionID), zap.Bool("anonymous", userID == ""))
	return token, sessionID, nil
}

// Verify parses the token and checks that its session is still registered.
// It returns the session id and the user id ("" for anonymous sessions).
func (s *Store) Verify(ctx context.Context, token string) (sessionID, userID string, err error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", domain.ErrUnauthenticated
	}

	stored, err := s.client.Get(ctx, sessionKeyPrefix+claims.ID).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", domain.ErrUnauthenticated
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: session lookup failed: %v", domain.ErrUpstream, err)
	}
	if stored != claims.Subject {
		s.logger.Warn("Session subject mismatch", zap.String("session_id", claims.ID))
		return "", "", domain.ErrUnauthenticated
	}

	return claims.ID, claims.Subject, nil
}

// Revoke removes the session and its attached state.
func (s *Store) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx,
		sessionKeyPrefix+sessionID,
		flashKeyPrefix+sessionID,
		returnToKeyPrefix+sessionID,
	).Err(); err != nil {
		return fmt.Errorf("%w: failed to revoke session: %v", domain.ErrUpstream, err)
	}
	s.logger.Debug("Session revoked", zap.String("session_id", sessionID))
	return nil
}

// PushFlash queues a flash message on the session.
func (s *Store) PushFlash(ctx context.Context, sessionID, kind, message string) error {
	data, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return err
	}
	key := flashKeyPrefix + sessionID
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to push flash: %v", domain.ErrUpstream, err)
	}
	return nil
}

// PopFlashes drains and returns the session's queued flash messages.
func (s *Store) PopFlashes(ctx context.Context, sessionID string) ([]Flash, error) {
	key := flashKeyPrefix + sessionID
	pipe := s.client.TxPipeline()
	entries := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to pop flashes: %v", domain.ErrUpstream, err)
	}

	raw, err := entries.Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read flashes: %v", domain.ErrUpstream, err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, entry := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(entry), &f); err != nil {
			s.logger.Warn("Dropping malformed flash entry", zap.Error(err))
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

// SetReturnTo remembers the URL to redirect to after a successful login.
func (s *Store) SetReturnTo(ctx context.Context, sessionID, url string) error {
	if err := s.client.Set(ctx, returnToKeyPrefix+sessionID, url, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to set return url: %v", domain.ErrUpstream, err)
	}
	return nil
}

// PopReturnTo returns and clears the remembered URL, if any.
func (s *Store) PopReturnTo(ctx context.Context, sessionID string) (string, error) {
	key := returnToKeyPrefix + sessionID
	url, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to pop return url: %v", domain.ErrUpstream, err)
	}
	return url, nil
}

// TTL exposes the configured session lifetime (used for the cookie max age).
func (s *Store) TTL() time.Duration {
	return s.ttl
}
