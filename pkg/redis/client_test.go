package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values  map[string]string
	deleted []string
	scans   [][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	if val, ok := f.values[key]; ok {
		return redis.NewStringResult(val, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.values, key)
		f.deleted = append(f.deleted, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeStore) Scan(_ context.Context, _ uint64, _ string, _ int64) *redis.ScanCmd {
	if len(f.scans) == 0 {
		return redis.NewScanCmdResult(nil, 0, nil)
	}
	keys := f.scans[0]
	f.scans = f.scans[1:]
	cursor := uint64(0)
	if len(f.scans) > 0 {
		cursor = 1
	}
	return redis.NewScanCmdResult(keys, cursor, nil)
}

func TestMetricsKeys(t *testing.T) {
	c := &Client{store: newFakeStore()}

	if got := c.MetricsKey("t1"); got != "xeno:metrics:t1" {
		t.Fatalf("unexpected metrics key %q", got)
	}
	if got := c.MetricsRangeKey("t1", "2024-01-01", "2024-01-31"); got != "xeno:metrics:t1:2024-01-01:2024-01-31" {
		t.Fatalf("unexpected range key %q", got)
	}
	if got := c.LockKey("sweeper"); got != "xeno:lock:sweeper" {
		t.Fatalf("unexpected lock key %q", got)
	}
}

func TestDeleteByPrefixWalksCursor(t *testing.T) {
	store := newFakeStore()
	store.values["xeno:metrics:t1:a"] = "1"
	store.values["xeno:metrics:t1:b"] = "1"
	store.scans = [][]string{
		{"xeno:metrics:t1:a"},
		{"xeno:metrics:t1:b"},
	}
	c := &Client{store: store}

	if err := c.DeleteByPrefix(context.Background(), "xeno:metrics:t1:"); err != nil {
		t.Fatalf("delete by prefix: %v", err)
	}
	if len(store.deleted) != 2 {
		t.Fatalf("expected 2 deletions, got %v", store.deleted)
	}
}

func TestSetNXOnlyOnce(t *testing.T) {
	c := &Client{store: newFakeStore()}

	ok, err := c.SetNX(context.Background(), "k", "v", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first setnx to succeed, got ok=%v err=%v", ok, err)
	}
	ok, err = c.SetNX(context.Background(), "k", "v2", time.Minute)
	if err != nil {
		t.Fatalf("setnx: %v", err)
	}
	if ok {
		t.Fatal("expected second setnx to fail")
	}
}
