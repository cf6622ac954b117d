package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"bountyhub/internal/common"
	"bountyhub/internal/http/response"
)

// Policy names a throttled action together with its fixed window. Keeping
// the budgets here, next to the limiter, means a handler asks for
// "the volunteer policy" instead of carrying its own numbers.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	// Volunteering and answering are throttled per question+user so one
	// noisy user cannot hammer a single question.
	PolicyVolunteer = Policy{Name: "volunteer", Limit: 3, Window: time.Minute}
	PolicyAnswer    = Policy{Name: "answer", Limit: 3, Window: time.Minute}
	// Question creation is throttled per client IP.
	PolicyCreateQuestion = Policy{Name: "create_question", Limit: 10, Window: time.Minute}
)

func (p Policy) key(subject string) string {
	return "ratelimit:" + p.Name + ":" + subject
}

// Limiter decides whether one more hit for subject fits inside the
// policy's window. Implementations must fail open rather than block
// legitimate traffic when their backing store is unavailable.
type Limiter interface {
	Allow(p Policy, subject string) bool
}

// MemoryLimiter is the in-process fallback used when no redis address is
// configured. Windows are tracked per policy+subject and reset lazily on
// the first hit after expiry; stale entries for idle subjects are
// reclaimed on that same hit, so the map stays bounded by active traffic.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*hitWindow
}

type hitWindow struct {
	hits    int
	resetAt time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*hitWindow)}
}

func (l *MemoryLimiter) Allow(p Policy, subject string) bool {
	if subject == "" || p.Limit <= 0 || p.Window <= 0 {
		return true
	}
	key := p.key(subject)
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.windows[key] = &hitWindow{hits: 1, resetAt: now.Add(p.Window)}
		return true
	}
	w.hits++
	return w.hits <= p.Limit
}

// RateLimit guards next with the given policy, keyed by subjectFn. A nil
// limiter or an empty subject lets the request through untouched.
func RateLimit(limiter Limiter, p Policy, subjectFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			subject := subjectFn(r)
			if subject == "" || limiter.Allow(p, subject) {
				next.ServeHTTP(w, r)
				return
			}
			response.Error(w, common.NewError(common.CodeRateLimited, p.Name+" rate limit exceeded", nil))
		})
	}
}

// ClientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
