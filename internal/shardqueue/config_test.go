package shardqueue

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Shards != 4 || cfg.QueueSize != 64 || cfg.EnqueueTimeout != 100*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DRAWMYFEELINGS_QUEUE_SHARDS", "8")
	t.Setenv("DRAWMYFEELINGS_QUEUE_QUEUE_SIZE", "2")
	t.Setenv("DRAWMYFEELINGS_QUEUE_ENQUEUE_TIMEOUT", "1s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Shards != 8 || cfg.QueueSize != 2 || cfg.EnqueueTimeout != time.Second {
		t.Fatalf("env not applied: %+v", cfg)
	}
}
