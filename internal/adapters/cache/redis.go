package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

const signupKeyPrefix = "signup:pending:"

// RedisSignupStore keeps signup sessions in Redis so a flow survives service
// restarts and can be picked up by any replica.
type RedisSignupStore struct {
	client *redis.Client
}

func NewRedisSignupStore(client *redis.Client) *RedisSignupStore {
	return &RedisSignupStore{client: client}
}

func (s *RedisSignupStore) Put(ctx context.Context, signup domain.PendingSignup) error {
	raw, err := json.Marshal(signup)
	if err != nil {
		return err
	}
	ttl := time.Until(signup.ExpiresAt)
	if ttl <= 0 {
		return s.client.Del(ctx, signupKeyPrefix+signup.SignupID.String()).Err()
	}
	return s.client.Set(ctx, signupKeyPrefix+signup.SignupID.String(), raw, ttl).Err()
}

func (s *RedisSignupStore) Get(ctx context.Context, signupID uuid.UUID) (*domain.PendingSignup, error) {
	raw, err := s.client.Get(ctx, signupKeyPrefix+signupID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out domain.PendingSignup
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisSignupStore) Delete(ctx context.Context, signupID uuid.UUID) error {
	return s.client.Del(ctx, signupKeyPrefix+signupID.String()).Err()
}
