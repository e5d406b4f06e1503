package connection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupRedisTracker(t *testing.T, ttl time.Duration) (*RedisTracker, *miniredis.Miniredis) {
	t.Helper()

	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	t.Cleanup(srv.Close)

	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisTracker(client, ttl), srv
}

func TestRedisTrackerTouchAndLastBinding(t *testing.T) {
	tracker, _ := setupRedisTracker(t, 0)
	ctx := context.Background()

	if err := tracker.Touch(ctx, "D1", TransportMQTT); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	binding, err := tracker.LastBinding(ctx, "D1")
	if err != nil {
		t.Fatalf("LastBinding() error = %v", err)
	}
	if binding.DeviceID != "D1" || binding.Transport != TransportMQTT {
		t.Errorf("binding = %+v, want D1/mqtt", binding)
	}
	if binding.LastConnectedAt.IsZero() {
		t.Error("LastConnectedAt not set")
	}
}

func TestRedisTrackerNoBinding(t *testing.T) {
	tracker, _ := setupRedisTracker(t, 0)

	_, err := tracker.LastBinding(context.Background(), "never-seen")
	if !errors.Is(err, ErrNoBinding) {
		t.Errorf("LastBinding() error = %v, want ErrNoBinding", err)
	}
}

func TestRedisTrackerTTLExpiry(t *testing.T) {
	tracker, srv := setupRedisTracker(t, time.Minute)
	ctx := context.Background()

	if err := tracker.Touch(ctx, "D1", TransportWS); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if _, err := tracker.LastBinding(ctx, "D1"); err != nil {
		t.Fatalf("LastBinding() before expiry error = %v", err)
	}

	srv.FastForward(2 * time.Minute)

	_, err := tracker.LastBinding(ctx, "D1")
	if !errors.Is(err, ErrNoBinding) {
		t.Errorf("LastBinding() after expiry error = %v, want ErrNoBinding", err)
	}
}

func TestRedisTrackerOverwrite(t *testing.T) {
	tracker, _ := setupRedisTracker(t, 0)
	ctx := context.Background()

	if err := tracker.Touch(ctx, "D1", TransportMQTT); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if err := tracker.Touch(ctx, "D1", TransportWS); err != nil {
		t.Fatalf("second Touch() error = %v", err)
	}

	binding, err := tracker.LastBinding(ctx, "D1")
	if err != nil {
		t.Fatalf("LastBinding() error = %v", err)
	}
	if binding.Transport != TransportWS {
		t.Errorf("transport = %q, want ws (latest wins)", binding.Transport)
	}
}

func TestMemoryTracker(t *testing.T) {
	tracker := NewMemoryTracker(0)
	ctx := context.Background()

	_, err := tracker.LastBinding(ctx, "D1")
	if !errors.Is(err, ErrNoBinding) {
		t.Errorf("LastBinding() error = %v, want ErrNoBinding", err)
	}

	if err := tracker.Touch(ctx, "D1", TransportMQTT); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	binding, err := tracker.LastBinding(ctx, "D1")
	if err != nil {
		t.Fatalf("LastBinding() error = %v", err)
	}
	if binding.DeviceID != "D1" || binding.Transport != TransportMQTT {
		t.Errorf("binding = %+v, want D1/mqtt", binding)
	}
}
