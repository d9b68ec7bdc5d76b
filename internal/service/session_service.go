package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mediconnect/internal/domain/entity"
	"mediconnect/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

const (
	sessionKeyPrefix    = "session:"
	oauthStateKeyPrefix = "oauth_state:"
	oauthStateTTL       = 10 * time.Minute
)

// SessionStore keeps role-scoped session state in Redis. Clients hold a
// signed token whose jti names the Redis key.
type SessionStore interface {
	Create(ctx context.Context, session *entity.Session) (string, error)
	Get(ctx context.Context, token string) (*entity.Session, error)
	Delete(ctx context.Context, token string) error
	TTL() time.Duration
}

type redisSessionStore struct {
	redisClient *redis.Client
	jwtService  *jwt.JWTService
	log         *logrus.Logger
}

func NewSessionStore(redisClient *redis.Client, jwtService *jwt.JWTService, log *logrus.Logger) SessionStore {
	return &redisSessionStore{
		redisClient: redisClient,
		jwtService:  jwtService,
		log:         log,
	}
}

func (s *redisSessionStore) Create(ctx context.Context, session *entity.Session) (string, error) {
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now()

	payload, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	key := sessionKeyPrefix + session.ID
	if err := s.redisClient.Set(ctx, key, payload, s.jwtService.TTL()).Err(); err != nil {
		s.log.Warnf("Failed to store session: %+v", err)
		return "", fmt.Errorf("store session: %w", err)
	}

	token, err := s.jwtService.GenerateSessionToken(session.ID, string(session.Role))
	if err != nil {
		s.redisClient.Del(ctx, key)
		return "", err
	}

	return token, nil
}

func (s *redisSessionStore) Get(ctx context.Context, token string) (*entity.Session, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	payload, err := s.redisClient.Get(ctx, sessionKeyPrefix+claims.ID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	if string(session.Role) != claims.Role {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		// nothing we can address; the key will expire on its own
		return nil
	}
	return s.redisClient.Del(ctx, sessionKeyPrefix+claims.ID).Err()
}

func (s *redisSessionStore) TTL() time.Duration {
	return s.jwtService.TTL()
}

// OAuthStateStore holds single-use anti-forgery state for the federated
// sign-in redirect.
type OAuthStateStore interface {
	Save(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}

type redisOAuthStateStore struct {
	redisClient *redis.Client
}

func NewOAuthStateStore(redisClient *redis.Client) OAuthStateStore {
	return &redisOAuthStateStore{redisClient: redisClient}
}

func (s *redisOAuthStateStore) Save(ctx context.Context, state string) error {
	return s.redisClient.Set(ctx, oauthStateKeyPrefix+state, "1", oauthStateTTL).Err()
}

// Consume reports whether state was issued and not used yet
func (s *redisOAuthStateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	err := s.redisClient.GetDel(ctx, oauthStateKeyPrefix+state).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
