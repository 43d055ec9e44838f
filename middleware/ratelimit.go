package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apierrors "github.com/Paldeepak079/AadharIQ/errors"
	"github.com/Paldeepak079/AadharIQ/metrics"
)

const defaultIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client address.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	metrics *metrics.Metrics
	errors  *apierrors.Handler
	logger  *zap.Logger
	now     func() time.Time
	trusted []netip.Prefix

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastPrune time.Time
}

// NewRateLimiter creates a new rate limiter middleware. m may be nil.
func NewRateLimiter(requestsPerSecond float64, burstSize int, m *metrics.Metrics, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		rps:     rate.Limit(requestsPerSecond),
		burst:   burstSize,
		idleTTL: defaultIdleTTL,
		metrics: m,
		errors:  apierrors.NewHandler(logger),
		logger:  logger,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

// TrustProxies sets the proxies whose X-Forwarded-For header is honoured.
// Entries are CIDR ranges or single addresses.
func (rl *RateLimiter) TrustProxies(proxies []string) error {
	trusted, err := ParseProxies(proxies)
	if err != nil {
		return err
	}
	rl.trusted = trusted
	return nil
}

// ParseProxies reads CIDR ranges or single addresses.
func ParseProxies(proxies []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if prefix, err := netip.ParsePrefix(p); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", p)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func isTrusted(trusted []netip.Prefix, ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the socket address of r. When that address is a trusted
// proxy, X-Forwarded-For is walked from the right and the first hop that is
// not itself trusted is returned.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !isTrusted(trusted, remote) {
		return remote
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !isTrusted(trusted, hop) {
			return hop
		}
	}
	return remote
}

// Allow reports whether the client may make another request now.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > rl.idleTTL {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.idleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastPrune = now
	}

	c, ok := rl.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Clients is the number of tracked client addresses.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Limit applies rate limiting to requests.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := ClientIP(r, rl.trusted)
		if !rl.Allow(client) {
			rl.logger.Warn("rate limit exceeded",
				zap.String("request_id", GetRequestID(r)),
				zap.String("path", r.URL.Path),
				zap.String("client", client),
			)
			if rl.metrics != nil {
				rl.metrics.RecordRateLimited(r.URL.Path)
			}

			w.Header().Set("Retry-After", "2")
			rl.errors.WriteRateLimitedError(w, GetRequestID(r))
			return
		}

		next.ServeHTTP(w, r)
	})
}
