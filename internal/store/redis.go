package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each collection under one namespaced key. Writes replace
// the document wholesale, matching the Store contract.
type RedisStore struct {
	client    *redis.Client
	namespace string
	log       *slog.Logger
}

// OpenRedis connects to addr (host:port or a redis:// URL) and verifies the
// connection before returning.
func OpenRedis(ctx context.Context, addr, namespace string, log *slog.Logger) (*RedisStore, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(client, namespace, log), nil
}

// NewRedisStore wraps an existing client. Tests pass a miniredis-backed one.
func NewRedisStore(client *redis.Client, namespace string, log *slog.Logger) *RedisStore {
	if namespace == "" {
		namespace = "plaza"
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisStore{client: client, namespace: namespace, log: log}
}

func (s *RedisStore) key(collection string) string {
	return s.namespace + ":" + collection
}

func (s *RedisStore) Load(ctx context.Context, collection string, dest any) error {
	raw, err := s.client.Get(ctx, s.key(collection)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load collection %q: %w", collection, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.log.Debug("discarding corrupt collection payload",
			"collection", collection, "error", err)
	}
	return nil
}

func (s *RedisStore) Save(ctx context.Context, collection string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", collection, err)
	}
	if err := s.client.Set(ctx, s.key(collection), raw, 0).Err(); err != nil {
		return fmt.Errorf("save collection %q: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection string) error {
	return s.client.Del(ctx, s.key(collection)).Err()
}

func (s *RedisStore) Collections(ctx context.Context) ([]string, error) {
	var names []string
	prefix := s.namespace + ":"
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
