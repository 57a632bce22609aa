package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tickprobe/internal/api/shared"
	"golang.org/x/time/rate"
)

// UserLimiter applies a token bucket per user and periodically evicts idle
// buckets. A nil *UserLimiter allows everything.
type UserLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu     sync.Mutex
	byUser map[uuid.UUID]*bucket
	hits   uint64
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUserLimiter creates a per-user limiter allowing perMinute events with the
// given burst. It returns nil when perMinute is not positive.
func NewUserLimiter(perMinute float64, burst int) *UserLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &UserLimiter{
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
		byUser:  make(map[uuid.UUID]*bucket),
	}
}

// Allow reports whether the user may proceed now.
func (l *UserLimiter) Allow(userID uuid.UUID) bool {
	if l == nil {
		return true
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.byUser[userID]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byUser[userID] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for id, v := range l.byUser {
			if v.lastSeen.Before(cutoff) {
				delete(l.byUser, id)
			}
		}
	}

	return allowed
}

// retryAfter is the whole-second wait before the next token for a rejected user.
func (l *UserLimiter) retryAfter() int {
	secs := int(time.Duration(float64(time.Second) / float64(l.limit)).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Limit rejects requests from users whose bucket is empty with 429. It must run
// after Authenticate; requests without a user ID pass through.
func (l *UserLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := shared.UserIDFromContext(r.Context())
		if ok && !l.Allow(userID) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfter()))
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many probe runs, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
