// Package dedup is an idempotency guard for ingestion: it tracks whether a
// (resource-type, id, platform) key is free, already being fetched, or was
// fetched recently, with TTL-governed transitions.
package dedup

import (
	"context"
	"fmt"
	"time"

	"tournament-verifier/internal/config"
	"tournament-verifier/internal/constants"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Status int

const (
	StatusAvailable Status = iota
	StatusPending
	StatusRecentlyProcessed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusRecentlyProcessed:
		return "RecentlyProcessed"
	}
	return "Available"
}

const (
	valuePending   = "pending"
	valueProcessed = "processed"
)

// TTL holds the pending/processed expirations for one resource type.
type TTL struct {
	Pending   time.Duration
	Processed time.Duration
}

type Service struct {
	rdb    *redis.Client
	ttls   map[string]TTL
	logger zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Service{
		rdb:    rdb,
		ttls:   make(map[string]TTL),
		logger: logger,
	}, nil
}

// SetTTL overrides the default expirations for one resource type.
func (s *Service) SetTTL(resourceType string, ttl TTL) {
	s.ttls[resourceType] = ttl
}

func (s *Service) ttlFor(resourceType string) TTL {
	if ttl, ok := s.ttls[resourceType]; ok {
		return ttl
	}
	return TTL{Pending: constants.DedupPendingTTL, Processed: constants.DedupProcessedTTL}
}

// TryReserve atomically claims the key for fetching. Returns false when the
// key is already pending or recently processed.
func (s *Service) TryReserve(ctx context.Context, resourceType string, id int64, platform string) (bool, error) {
	key := dedupKey(resourceType, id, platform)
	ok, err := s.rdb.SetNX(ctx, key, valuePending, s.ttlFor(resourceType).Pending).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve %s: %w", key, err)
	}
	if ok {
		s.logger.Debug().Str("key", key).Msg("reserved")
	}
	return ok, nil
}

// MarkCompleted transitions a key to recently-processed.
func (s *Service) MarkCompleted(ctx context.Context, resourceType string, id int64, platform string) error {
	key := dedupKey(resourceType, id, platform)
	if err := s.rdb.Set(ctx, key, valueProcessed, s.ttlFor(resourceType).Processed).Err(); err != nil {
		return fmt.Errorf("failed to mark %s completed: %w", key, err)
	}
	return nil
}

// Release frees a reservation so the key is immediately available again.
func (s *Service) Release(ctx context.Context, resourceType string, id int64, platform string) error {
	key := dedupKey(resourceType, id, platform)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}

func (s *Service) GetStatus(ctx context.Context, resourceType string, id int64, platform string) (Status, error) {
	key := dedupKey(resourceType, id, platform)
	val, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return StatusAvailable, nil
	}
	if err != nil {
		return StatusAvailable, fmt.Errorf("failed to get status of %s: %w", key, err)
	}
	if val == valueProcessed {
		return StatusRecentlyProcessed, nil
	}
	return StatusPending, nil
}

func (s *Service) Close() error {
	return s.rdb.Close()
}

func dedupKey(resourceType string, id int64, platform string) string {
	return fmt.Sprintf("dedup:%s:%s:%d", resourceType, platform, id)
}
