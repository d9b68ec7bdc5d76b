package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	// ErrBookingInFlight is returned while another request holds the same key
	ErrBookingInFlight = errors.New("booking already in progress")
)

const (
	bookingKeyPrefix   = "booking:idempotency:"
	bookingPending     = "pending"
	bookingPendingTTL  = 30 * time.Second
	bookingResultTTL   = 10 * time.Minute
	bookingBucketWidth = time.Minute
)

// completeBookingScript stores the appointment id only while the key still
// holds the value the caller expects.
var completeBookingScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		redis.call('SET', KEYS[1], ARGV[2], 'EX', ARGV[3])
		return 1
	end
	return 0
`)

// BookingGuard collapses duplicate booking submissions onto one appointment
type BookingGuard interface {
	// Acquire returns the appointment id of an earlier completed booking for key,
	// or "" when the caller now holds the key and must call Complete or Release.
	Acquire(ctx context.Context, key string) (string, error)
	Complete(ctx context.Context, key, appointmentID string) error
	// Replace repoints a completed key from staleID to appointmentID
	Replace(ctx context.Context, key, staleID, appointmentID string) error
	Release(ctx context.Context, key string)
}

type redisBookingGuard struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewBookingGuard(redisClient *redis.Client, log *logrus.Logger) BookingGuard {
	return &redisBookingGuard{redisClient: redisClient, log: log}
}

func (g *redisBookingGuard) Acquire(ctx context.Context, key string) (string, error) {
	redisKey := bookingKeyPrefix + key

	ok, err := g.redisClient.SetNX(ctx, redisKey, bookingPending, bookingPendingTTL).Result()
	if err != nil {
		return "", fmt.Errorf("acquire booking key: %w", err)
	}
	if ok {
		return "", nil
	}

	existing, err := g.redisClient.Get(ctx, redisKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			return g.Acquire(ctx, key)
		}
		return "", fmt.Errorf("read booking key: %w", err)
	}
	if existing == bookingPending {
		return "", ErrBookingInFlight
	}
	return existing, nil
}

func (g *redisBookingGuard) Complete(ctx context.Context, key, appointmentID string) error {
	return g.swap(ctx, key, bookingPending, appointmentID)
}

func (g *redisBookingGuard) Replace(ctx context.Context, key, staleID, appointmentID string) error {
	return g.swap(ctx, key, staleID, appointmentID)
}

func (g *redisBookingGuard) swap(ctx context.Context, key, expected, appointmentID string) error {
	ttl := int(bookingResultTTL / time.Second)
	return completeBookingScript.Run(ctx, g.redisClient,
		[]string{bookingKeyPrefix + key},
		expected, appointmentID, ttl,
	).Err()
}

func (g *redisBookingGuard) Release(ctx context.Context, key string) {
	if err := g.redisClient.Del(ctx, bookingKeyPrefix+key).Err(); err != nil {
		g.log.Warnf("Failed to release booking key: %+v", err)
	}
}

// BookingKey derives the idempotency key. An explicit client key wins;
// otherwise phone, doctor and description within the same minute collapse.
func BookingKey(clientKey, phone, doctorID, description string, now time.Time) string {
	if clientKey = strings.TrimSpace(clientKey); clientKey != "" {
		return "client:" + hash(doctorID+"|"+clientKey)
	}
	bucket := now.Truncate(bookingBucketWidth).Unix()
	return "derived:" + hash(fmt.Sprintf("%s|%s|%s|%d",
		strings.TrimSpace(phone), doctorID, strings.TrimSpace(description), bucket))
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
