package middleware

import (
	"context"
	"errors"
	"net"
	"slices"
	"sync"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"

	"github.com/apexdigital/apex/internal/apperr"
)

var errRateLimited = errors.New("too many requests, try again later")

// maxTrackedPeers bounds the limiter table; idle entries are swept once it
// is exceeded.
const maxTrackedPeers = 10000

type peerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles selected procedures per client address with a
// token bucket.
type RateLimiter struct {
	perMinute  int
	procedures []string
	now        func() time.Time

	mu    sync.Mutex
	peers map[string]*peerLimiter
}

// NewRateLimiter allows perMinute calls per client address to each of the
// given procedures, with bursts up to perMinute. A non-positive perMinute
// disables limiting.
func NewRateLimiter(perMinute int, procedures ...string) *RateLimiter {
	return &RateLimiter{
		perMinute:  perMinute,
		procedures: procedures,
		now:        time.Now,
		peers:      make(map[string]*peerLimiter),
	}
}

// Allow reports whether a call from addr may proceed.
func (l *RateLimiter) Allow(addr string) bool {
	if l.perMinute <= 0 {
		return true
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	p, ok := l.peers[addr]
	if !ok {
		if len(l.peers) >= maxTrackedPeers {
			l.sweep(now)
		}
		p = &peerLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute),
		}
		l.peers[addr] = p
	}
	p.lastSeen = now
	return p.limiter.AllowN(now, 1)
}

// sweep drops peers idle long enough for their bucket to have refilled.
func (l *RateLimiter) sweep(now time.Time) {
	for addr, p := range l.peers {
		if now.Sub(p.lastSeen) > time.Minute {
			delete(l.peers, addr)
		}
	}
}

// Interceptor returns a Connect interceptor that rejects throttled calls
// with CodeResourceExhausted.
func (l *RateLimiter) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if slices.Contains(l.procedures, req.Spec().Procedure) && !l.Allow(req.Peer().Addr) {
				return nil, kindError(connect.CodeResourceExhausted, apperr.KindRateLimited, errRateLimited)
			}
			return next(ctx, req)
		}
	}
}
