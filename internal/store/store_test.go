package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryCache_GetSetExpire(t *testing.T) {
	clock := newFakeClock()
	cache, err := NewMemoryCache(10, time.Minute)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}
	cache.now = clock.Now
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "mint"); ok {
		t.Fatal("Get() hit on empty cache")
	}

	want := &models.AnalysisResult{Verdict: models.VerdictSafe}
	cache.Set(ctx, "mint", want)

	clock.Advance(59 * time.Second)
	got, ok := cache.Get(ctx, "mint")
	if !ok || got != want {
		t.Fatalf("Get() = %v, %v; want cached result", got, ok)
	}

	clock.Advance(2 * time.Second)
	if _, ok := cache.Get(ctx, "mint"); ok {
		t.Error("Get() hit after TTL")
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want expired entry removed on read", cache.Len())
	}
}

func TestMemoryCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	cache, err := NewMemoryCache(10, time.Minute)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}
	cache.now = clock.Now
	ctx := context.Background()

	cache.Set(ctx, "old-1", &models.AnalysisResult{})
	cache.Set(ctx, "old-2", &models.AnalysisResult{})
	clock.Advance(90 * time.Second)
	cache.Set(ctx, "fresh", &models.AnalysisResult{})

	if removed := cache.Sweep(); removed != 2 {
		t.Errorf("Sweep() = %d, want 2", removed)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
	if _, ok := cache.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry swept")
	}
}

func TestMemoryCache_EvictsOldestWhenFull(t *testing.T) {
	cache, err := NewMemoryCache(2, time.Minute)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}
	ctx := context.Background()

	cache.Set(ctx, "a", &models.AnalysisResult{})
	cache.Set(ctx, "b", &models.AnalysisResult{})
	cache.Set(ctx, "c", &models.AnalysisResult{})

	if _, ok := cache.Get(ctx, "a"); ok {
		t.Error("oldest entry kept beyond capacity")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(3, time.Minute)
	limiter.now = clock.Now

	for i := 0; i < 3; i++ {
		d := limiter.Allow("1.2.3.4")
		if !d.Allowed {
			t.Fatalf("request %d denied", i+1)
		}
		if d.Remaining != 2-i {
			t.Errorf("request %d Remaining = %d, want %d", i+1, d.Remaining, 2-i)
		}
	}

	denied := limiter.Allow("1.2.3.4")
	if denied.Allowed || denied.Remaining != 0 {
		t.Errorf("4th request = %+v, want denied", denied)
	}
	if want := clock.Now().Add(time.Minute); !denied.ResetAt.Equal(want) {
		t.Errorf("ResetAt = %v, want %v", denied.ResetAt, want)
	}

	if !limiter.Allow("5.6.7.8").Allowed {
		t.Error("other client affected by first client's window")
	}

	clock.Advance(time.Minute + time.Second)
	if d := limiter.Allow("1.2.3.4"); !d.Allowed || d.Remaining != 2 {
		t.Errorf("after window = %+v, want fresh window", d)
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(10, time.Minute)
	limiter.now = clock.Now

	limiter.Allow("a")
	limiter.Allow("b")
	clock.Advance(30 * time.Second)
	limiter.Allow("c")
	clock.Advance(31 * time.Second)

	if removed := limiter.Sweep(); removed != 2 {
		t.Errorf("Sweep() = %d, want 2", removed)
	}
	if limiter.Len() != 1 {
		t.Errorf("Len() = %d, want 1", limiter.Len())
	}
}

type countingSweeper struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSweeper) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return 1
}

func (s *countingSweeper) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRunJanitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := &countingSweeper{}
	done := make(chan struct{})

	go func() {
		RunJanitor(ctx, 5*time.Millisecond, zap.NewNop().Sugar(), sweeper)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for sweeper.Calls() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunJanitor did not stop after cancel")
	}
	if sweeper.Calls() < 2 {
		t.Errorf("sweeps = %d, want at least 2", sweeper.Calls())
	}
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewRedisCacheWithClient(client, time.Minute, zap.NewNop().Sugar())
	defer cache.Close()
	ctx := context.Background()

	cache.Set(ctx, "mint", &models.AnalysisResult{Verdict: models.VerdictSafe})
	if _, ok := cache.Get(ctx, "mint"); ok {
		t.Error("Get() hit on unreachable redis")
	}
	if err := cache.Ping(ctx); err == nil {
		t.Error("Ping() = nil on unreachable redis")
	}
	if cache.Sweep() != 0 {
		t.Error("Sweep() on redis removed entries")
	}
	if got := redisKey("mint"); got != "degenscan:scan:mint" {
		t.Errorf("redisKey() = %q", got)
	}
}
