package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"citizen-portal-api/config"

	"github.com/redis/go-redis/v9"
)

const otpTTL = 10 * time.Minute

// OTPStore keeps short-lived password-reset codes in Redis, one per email.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOTPStore constructs the store. A nil client falls back to the
// process-wide connection.
func NewOTPStore(client *redis.Client) *OTPStore {
	if client == nil {
		client = config.Redis
	}
	return &OTPStore{client: client, ttl: otpTTL}
}

func otpKey(email string) string {
	return "otp:" + strings.ToLower(strings.TrimSpace(email))
}

// Generate creates a fresh code for the email, replacing any outstanding one.
func (s *OTPStore) Generate(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	otp := fmt.Sprintf("%06d", n.Int64()+100000)

	if err := s.client.Set(ctx, otpKey(email), otp, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}
	return otp, nil
}

// Verify checks the submitted code and consumes it on a match. A stale or
// wrong code leaves the stored one intact.
func (s *OTPStore) Verify(ctx context.Context, email, otp string) (bool, error) {
	key := otpKey(email)

	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read otp: %w", err)
	}

	if stored != strings.TrimSpace(otp) {
		return false, nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("failed to consume otp: %w", err)
	}
	return true, nil
}

// TTLRemaining reports how long the outstanding code stays valid.
func (s *OTPStore) TTLRemaining(ctx context.Context, email string) (time.Duration, error) {
	return s.client.TTL(ctx, otpKey(email)).Result()
}
