package httpapi

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; past it the map starts over.
const maxTrackedClients = 10000

// ClientLimiter rate-limits per client IP.
type ClientLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if lim, ok := cl.m[client]; ok {
		return lim
	}
	if len(cl.m) >= maxTrackedClients {
		cl.m = make(map[string]*rate.Limiter)
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[client] = lim
	return lim
}

func (cl *ClientLimiter) Allow(client string) bool {
	return cl.limiterFor(client).Allow()
}

// Middleware answers 429 once a client exceeds its budget. Health checks and
// the event stream are exempt.
func (cl *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health", "/ready", "/events":
			next.ServeHTTP(w, r)
			return
		}
		if !cl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
