package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/potensio/gii-backend/internal/platform/logger"
	"github.com/potensio/gii-backend/internal/services"
)

const (
	idempotencyKeyPrefix = "checkout:idem:"
	inflightMarker       = "__inflight__"
	defaultTTL           = 24 * time.Hour
)

type idempotencyStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewIdempotencyStore connects to REDIS_ADDR and returns the checkout
// idempotency guard. Callers treat a constructor error as "guard disabled",
// not as fatal.
func NewIdempotencyStore(log *logger.Logger) (services.IdempotencyStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &idempotencyStore{
		log: log.With("service", "RedisIdempotencyStore"),
		rdb: rdb,
		ttl: defaultTTL,
	}, nil
}

func (s *idempotencyStore) Begin(ctx context.Context, key string) (*services.CheckoutReceipt, bool, error) {
	redisKey := idempotencyKeyPrefix + key
	claimed, err := s.rdb.SetNX(ctx, redisKey, inflightMarker, s.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("claim idempotency key: %w", err)
	}
	if claimed {
		return nil, false, nil
	}

	val, err := s.rdb.Get(ctx, redisKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			// Expired between SetNX and Get; treat as fresh.
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == inflightMarker {
		return nil, true, nil
	}

	var receipt services.CheckoutReceipt
	if err := json.Unmarshal([]byte(val), &receipt); err != nil {
		return nil, false, fmt.Errorf("decode stored receipt: %w", err)
	}
	return &receipt, false, nil
}

func (s *idempotencyStore) Complete(ctx context.Context, key string, receipt *services.CheckoutReceipt) error {
	raw, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}
	return s.rdb.Set(ctx, idempotencyKeyPrefix+key, raw, s.ttl).Err()
}

func (s *idempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, idempotencyKeyPrefix+key).Err()
}
