package store

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const maxTrackedClients = 100_000

type window struct {
	count   int
	resetAt time.Time
}

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter allows limit requests per client in fixed windows. The first request of a
// client opens its window; the window resets once its duration has passed.
type RateLimiter struct {
	mu      sync.Mutex
	clients *simplelru.LRU[string, *window]
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	clients, err := simplelru.NewLRU[string, *window](maxTrackedClients, nil)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &RateLimiter{clients: clients, limit: limit, window: per, now: time.Now}
}

func (l *RateLimiter) Allow(client string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients.Get(client)
	if !ok || now.After(w.resetAt) {
		w = &window{count: 1, resetAt: now.Add(l.window)}
		l.clients.Add(client, w)
		return Decision{Allowed: true, Remaining: l.limit - 1, ResetAt: w.resetAt}
	}

	if w.count >= l.limit {
		return Decision{Allowed: false, Remaining: 0, ResetAt: w.resetAt}
	}

	w.count++
	return Decision{Allowed: true, Remaining: l.limit - w.count, ResetAt: w.resetAt}
}

// Sweep forgets clients whose window has ended.
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for _, key := range l.clients.Keys() {
		w, ok := l.clients.Peek(key)
		if ok && now.After(w.resetAt) {
			l.clients.Remove(key)
			removed++
		}
	}
	return removed
}

func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clients.Len()
}

func (l *RateLimiter) Limit() int {
	return l.limit
}
