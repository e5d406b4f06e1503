package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// keyPrefix namespaces binding keys in a shared Redis instance.
const keyPrefix = "conduit:connection:"

// RedisTracker stores connection bindings in Redis so reachability
// survives restarts of this service and is shared with the transport
// processes that actually hold the sockets.
//
// Each binding lives under conduit:connection:{deviceID} as JSON, with an
// optional TTL so stale bindings age out on their own.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration // 0 = bindings never expire
}

// NewRedisTracker creates a tracker backed by the given Redis client.
// A zero ttl keeps bindings until explicitly overwritten.
func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	return &RedisTracker{client: client, ttl: ttl}
}

// LastBinding returns the most recent binding for a device.
func (t *RedisTracker) LastBinding(ctx context.Context, deviceID string) (*Binding, error) {
	data, err := t.client.Get(ctx, keyPrefix+deviceID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoBinding
		}
		return nil, fmt.Errorf("reading binding: %w", err)
	}

	var binding Binding
	if err := json.Unmarshal([]byte(data), &binding); err != nil {
		return nil, fmt.Errorf("unmarshalling binding: %w", err)
	}
	return &binding, nil
}

// Touch records a fresh connection for a device.
func (t *RedisTracker) Touch(ctx context.Context, deviceID string, transport Transport) error {
	binding := Binding{
		DeviceID:        deviceID,
		Transport:       transport,
		LastConnectedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(binding)
	if err != nil {
		return fmt.Errorf("marshalling binding: %w", err)
	}

	if err := t.client.Set(ctx, keyPrefix+deviceID, data, t.ttl).Err(); err != nil {
		return fmt.Errorf("writing binding: %w", err)
	}
	return nil
}

// HealthCheck verifies the Redis connection is alive.
func (t *RedisTracker) HealthCheck(ctx context.Context) error {
	if err := t.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
