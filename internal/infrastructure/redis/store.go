package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-otc-auth/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// Key prefixes keep the two namespaces apart when they share a database.
const (
	CodePrefix  = "otc:"
	TokenPrefix = "tok:"
)

const scanBatch = 100

// Connect opens a client for a redis:// URL and verifies it with PING.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Store is a TTL namespace backed by Redis key expiry.
type Store struct {
	client *goredis.Client
	prefix string
}

func NewStore(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", domain.ErrBadRequest)
	}
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("key not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Keys walks the namespace with SCAN so large token sets do not block the server.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys := newKeySet(s.prefix)
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys.add(iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys.list, nil
}

// keySet strips the namespace prefix and drops repeats; SCAN may return a key
// more than once while the keyspace is rehashing.
type keySet struct {
	prefix string
	seen   map[string]struct{}
	list   []string
}

func newKeySet(prefix string) *keySet {
	return &keySet{prefix: prefix, seen: make(map[string]struct{})}
}

func (k *keySet) add(raw string) {
	key := strings.TrimPrefix(raw, k.prefix)
	if _, ok := k.seen[key]; ok {
		return
	}
	k.seen[key] = struct{}{}
	k.list = append(k.list, key)
}
