// Package rate limits API requests per client.
package rate

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gustycube/neoview/internal/metrics"
)

type PerClient struct {
	mu         sync.Mutex
	m          map[string]*limitEntry
	perSecond  float64
	burst      int
	maxEntries int
	idle       time.Duration
}

type limitEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// New returns a limiter granting each client perSecond requests with the
// given burst.
func New(perSecond float64, burst int) *PerClient {
	if burst < 1 {
		burst = 1
	}
	return &PerClient{
		m:          make(map[string]*limitEntry),
		perSecond:  perSecond,
		burst:      burst,
		maxEntries: 10000,
		idle:       time.Hour,
	}
}

// Run evicts idle clients every interval until ctx is done.
func (p *PerClient) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep(time.Now())
		}
	}
}

func (p *PerClient) sweep(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.m) <= p.maxEntries {
		return
	}
	cutoff := now.Add(-p.idle)
	for client, entry := range p.m {
		if entry.lastUsed.Before(cutoff) {
			delete(p.m, client)
		}
	}
}

func (p *PerClient) Allow(client string) bool {
	p.mu.Lock()
	entry, ok := p.m[client]
	if !ok {
		entry = &limitEntry{limiter: rate.NewLimiter(rate.Limit(p.perSecond), p.burst)}
		p.m[client] = entry
	}
	entry.lastUsed = time.Now()
	p.mu.Unlock()
	return entry.limiter.Allow()
}

func (p *PerClient) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

// Middleware rejects requests over the client's budget with 429.
func (p *PerClient) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !p.Allow(ClientIP(r)) {
			metrics.RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
