package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/movies-backend/config"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each entry under its own key with a TTL and tracks tag
// membership in one redis set per tag.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *logger.Logger
}

// NewRedisStore connects to redis using raw config strings and verifies the connection
func NewRedisStore(cfg *config.CacheConfig, log *logger.Logger) (*RedisStore, error) {
	db := 0 // default
	if cfg.DB != "" {
		parsed, err := strconv.Atoi(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db '%s': %w", cfg.DB, err)
		}
		db = parsed
	}

	ttl := 5 * time.Minute // default
	if cfg.TTL != "" {
		parsed, err := time.ParseDuration(cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid cache TTL '%s': %w", cfg.TTL, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("cache TTL must be positive, got %s", cfg.TTL)
		}
		ttl = parsed
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "movies-backend:" // default
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	store := NewRedisStoreFromClient(client, ttl, prefix, log)
	store.logger.Info("Redis cache connected at " + cfg.Addr + " (ttl " + ttl.String() + ")")
	return store, nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration, prefix string, log *logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithComponent("redis-cache"),
	}
}

func (s *RedisStore) entryKey(key string) string {
	return s.prefix + "entry:" + key
}

func (s *RedisStore) tagKey(tag string) string {
	return s.prefix + "tag:" + tag
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value and registers it under every tag. Tag sets outlive their
// newest member by at most one TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, tags ...string) error {
	entry := s.entryKey(key)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entry, value, s.ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, s.tagKey(tag), entry)
			pipe.Expire(ctx, s.tagKey(tag), s.ttl)
		}
		return nil
	})
	return err
}

// EvictTag deletes every entry registered under tag and drops them from the tag set
func (s *RedisStore) EvictTag(ctx context.Context, tag string) error {
	tagKey := s.tagKey(tag)

	members, err := s.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read cache tag %s: %w", tag, err)
	}

	if len(members) == 0 {
		return nil
	}

	// Only the members read above leave the set; entries tagged in the meantime stay tracked
	removed := make([]any, len(members))
	for i, member := range members {
		removed[i] = member
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, members...)
		pipe.SRem(ctx, tagKey, removed...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to evict cache tag %s: %w", tag, err)
	}

	s.logger.Debug("Evicted " + strconv.Itoa(len(members)) + " entries for tag " + tag)
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
