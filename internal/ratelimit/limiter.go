package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limit describes one route's budget as a token bucket.
type Limit struct {
	Rate  rate.Limit
	Burst int
}

// PerMinute returns a bucket that admits n requests per minute with a burst
// of n.
func PerMinute(n int) Limit {
	return Limit{Rate: rate.Every(time.Minute / time.Duration(n)), Burst: n}
}

// Route keys used across the service.
const (
	RouteInvoiceCreate = "invoices:create"
	RouteInvoiceList   = "invoices:list"
	RouteInvoicePDF    = "invoices:pdf"
	RouteInvoiceSend   = "invoices:send"
)

// Defaults: create 10/min, pdf and send 5/min, list 100/min.
func Defaults() map[string]Limit {
	return map[string]Limit{
		RouteInvoiceCreate: PerMinute(10),
		RouteInvoiceList:   PerMinute(100),
		RouteInvoicePDF:    PerMinute(5),
		RouteInvoiceSend:   PerMinute(5),
	}
}

// Limiter holds per-(route, caller) token buckets. It is an explicit service
// instance passed into the request boundary, never ambient global state;
// Reset exists for test isolation.
type Limiter struct {
	mu      sync.Mutex
	routes  map[string]Limit
	buckets map[string]*rate.Limiter
}

func New(routes map[string]Limit) *Limiter {
	return &Limiter{routes: routes, buckets: make(map[string]*rate.Limiter)}
}

// Allow reports whether the caller identified by key may invoke route now.
// Routes without a configured limit are always allowed.
func (l *Limiter) Allow(route, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.routes[route]
	if !ok {
		return true
	}
	k := route + "|" + key
	b, ok := l.buckets[k]
	if !ok {
		b = rate.NewLimiter(lim.Rate, lim.Burst)
		l.buckets[k] = b
	}
	return b.Allow()
}

// Reset drops all buckets, refilling every budget.
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.buckets = make(map[string]*rate.Limiter)
	l.mu.Unlock()
}
