package service

import (
	"context"
	"io"
	"testing"
	"time"

	"mediconnect/config"
	"mediconnect/internal/domain/entity"
	"mediconnect/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSessionStore(t *testing.T) (*miniredis.Miniredis, SessionStore) {
	t.Helper()
	mr, client := newTestRedis(t)
	jwtService := jwt.NewJWTService(config.SessionConfig{
		Secret: "0123456789abcdef0123456789abcdef",
		TTL:    24 * time.Hour,
	})
	return mr, NewSessionStore(client, jwtService, newTestLogger())
}

func TestSessionRoundTrip(t *testing.T) {
	mr, store := newTestSessionStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, &entity.Session{
		Role:         entity.RolePatient,
		PatientID:    "p-1",
		PatientEmail: "a@x.com",
		PatientName:  "A",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	session, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if session.PatientID != "p-1" || session.PatientName != "A" || session.Role != entity.RolePatient {
		t.Errorf("unexpected session %+v", session)
	}

	key := sessionKeyPrefix + session.ID
	if ttl := mr.TTL(key); ttl != 24*time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
}

func TestSessionLogoutRemovesState(t *testing.T) {
	_, store := newTestSessionStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, &entity.Session{Role: entity.RoleDoctor, DoctorID: "DOC-ABCDEFGH"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, token); err != ErrSessionNotFound {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionExpiresWithRedisKey(t *testing.T) {
	mr, store := newTestSessionStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, &entity.Session{Role: entity.RoleAdmin, AdminEmail: "admin@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FastForward(25 * time.Hour)

	if _, err := store.Get(ctx, token); err != ErrSessionNotFound {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRejectsForgedToken(t *testing.T) {
	_, store := newTestSessionStore(t)
	if _, err := store.Get(context.Background(), "not-a-token"); err != ErrSessionNotFound {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestOAuthStateIsSingleUse(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewOAuthStateStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "state-1"); err != nil {
		t.Fatalf("save: %v", err)
	}

	ok, err := store.Consume(ctx, "state-1")
	if err != nil || !ok {
		t.Fatalf("first consume: ok=%v err=%v", ok, err)
	}
	ok, err = store.Consume(ctx, "state-1")
	if err != nil || ok {
		t.Fatalf("replay accepted: ok=%v err=%v", ok, err)
	}
	ok, _ = store.Consume(ctx, "never-issued")
	if ok {
		t.Fatal("unknown state accepted")
	}
}
