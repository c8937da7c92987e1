package portfolio

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter rate-limits events per key (usually a client IP) with a token
// bucket per key. The bucket holds burst tokens and refills one token every
// window/burst.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyedEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	stop     chan struct{}
	once     sync.Once
}

type keyedEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter creates a KeyedLimiter that allows burst events per window
// for each key.
func NewKeyedLimiter(burst int, window time.Duration) *KeyedLimiter {
	if burst <= 0 {
		burst = 1
	}
	l := &KeyedLimiter{
		limiters: make(map[string]*keyedEntry),
		limit:    rate.Every(window / time.Duration(burst)),
		burst:    burst,
		idle:     window,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *KeyedLimiter) cleanup() {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-l.idle)
			l.mu.Lock()
			for key, e := range l.limiters {
				if e.lastSeen.Before(cutoff) {
					delete(l.limiters, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *KeyedLimiter) entry(key string) *rate.Limiter {
	e, ok := l.limiters[key]
	if !ok {
		e = &keyedEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// Allow consumes a token for key and reports whether one was available.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entry(key).Allow()
}

// Check reports whether key has a token left without consuming it. Login
// uses Check before comparing the password and Record only on failure, so
// successful logins never count against the budget.
func (l *KeyedLimiter) Check(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entry(key).Tokens() >= 1
}

// Record consumes a token for key.
func (l *KeyedLimiter) Record(key string) {
	l.mu.Lock()
	l.entry(key).Allow()
	l.mu.Unlock()
}

// Stop ends the background cleanup.
func (l *KeyedLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
