package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
	"touring-route-service/internal/domain"
	"touring-route-service/internal/platform/obs"

	"github.com/klauspost/compress/gzip"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "touring:directions:"

// RedisDirectionsCache stores gzip-compressed JSON directions results in
// Redis with a TTL. A TTL of 0 keeps entries until evicted by Redis.
type RedisDirectionsCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisDirectionsCache connects to addr and verifies the connection.
func NewRedisDirectionsCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisDirectionsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisDirectionsCache{client: client, prefix: defaultRedisPrefix, ttl: ttl}, nil
}

func (c *RedisDirectionsCache) Close() error {
	return c.client.Close()
}

func (c *RedisDirectionsCache) key(req domain.DirectionsRequest) string {
	return c.prefix + domain.DirectionsKey(req)
}

func (c *RedisDirectionsCache) Get(
	ctx context.Context,
	req domain.DirectionsRequest,
) (_ domain.DirectionsResult, _ bool, err error) {
	defer obs.Time(ctx, "directions.redis.Get")(&err)

	data, err := c.client.Get(ctx, c.key(req)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DirectionsResult{}, false, nil
	}
	if err != nil {
		return domain.DirectionsResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	raw, err := gzipDecompress(data)
	if err != nil {
		return domain.DirectionsResult{}, false, fmt.Errorf("decompress: %w", err)
	}

	var result domain.DirectionsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.DirectionsResult{}, false, fmt.Errorf("json unmarshal: %w", err)
	}
	return result, true, nil
}

func (c *RedisDirectionsCache) Set(
	ctx context.Context,
	req domain.DirectionsRequest,
	result domain.DirectionsResult,
) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	compressed, err := gzipCompress(raw)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	if err := c.client.Set(ctx, c.key(req), compressed, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}
