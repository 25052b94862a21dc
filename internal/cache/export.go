package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockops/stockorders/internal/config"
)

const (
	exportKeyPrefix     = "export:csv"
	exportScanBatchSize = 100
)

// ExportCache memoizes rendered CSV exports. Keys are content hashes of
// the inputs, so a new snapshot or changed parameters miss naturally and
// stale entries age out on TTL.
type ExportCache interface {
	GetCSV(ctx context.Context, key string) ([]byte, bool, error)
	SetCSV(ctx context.Context, key string, payload []byte) error
	InvalidateAll(ctx context.Context) error
}

type redisExportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopExportCache struct{}

func NewExportCache(cfg config.CacheConfig) (ExportCache, error) {
	if !cfg.Enabled {
		return &noopExportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisExportCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopExportCache() ExportCache {
	return &noopExportCache{}
}

func (c *redisExportCache) GetCSV(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return payload, true, nil
}

func (c *redisExportCache) SetCSV(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisExportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, exportKeyPrefix, exportScanBatchSize)
}

func (n *noopExportCache) GetCSV(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *noopExportCache) SetCSV(ctx context.Context, key string, payload []byte) error {
	return nil
}

func (n *noopExportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// BuildExportKey derives the cache key for one export: the kind of report,
// the snapshot fingerprint it renders, and any export parameters.
func BuildExportKey(kind, fingerprint string, params ...string) string {
	raw := strings.Join(append([]string{kind, fingerprint}, params...), "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", exportKeyPrefix, hex.EncodeToString(hash[:]))
}
