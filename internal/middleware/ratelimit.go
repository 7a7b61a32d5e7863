package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/taskhive/backend/api/transport"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles credential endpoints per client address to slow
// down password guessing. Stale entries are evicted in the background.
type LoginLimiter struct {
	rate  rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*clientLimiter
	stopCh  chan struct{}
}

// NewLoginLimiter allows perMinute attempts per client address with the
// given burst.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = perMinute
	}
	l := &LoginLimiter{
		rate:    rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		stopCh:  make(chan struct{}),
	}
	go l.evictLoop()
	return l
}

// Wrap applies the limiter to a handler.
func (l *LoginLimiter) Wrap(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if !l.allow(ctx.RemoteIP().String()) {
			writeEnvelope(ctx, http.StatusTooManyRequests, transport.NewError("RATE_LIMITED", "too many attempts, try again later"))
			return
		}
		next(ctx)
	}
}

// Stop terminates the eviction goroutine.
func (l *LoginLimiter) Stop() {
	close(l.stopCh)
}

func (l *LoginLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, ok := l.clients[addr]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[addr] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

func (l *LoginLimiter) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			l.mu.Lock()
			for addr, client := range l.clients {
				if client.lastSeen.Before(cutoff) {
					delete(l.clients, addr)
				}
			}
			l.mu.Unlock()
		case <-l.stopCh:
			return
		}
	}
}
