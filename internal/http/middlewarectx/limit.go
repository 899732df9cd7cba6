package middlewarectx

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/http/response"
)

// limiterIdleTTL через столько без запросов лимитер ключа удаляется.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// limiterSet хранит лимитеры по ключам и вычищает простаивающие. Лимитер
// удаляется не раньше, чем успел бы полностью восстановиться, поэтому
// удаление не даёт ключу лишних запросов.
type limiterSet struct {
	mu        sync.Mutex
	rps       float64
	burst     int
	idle      time.Duration
	now       func() time.Time
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func newLimiterSet(rps float64, burst int, idle time.Duration, now func() time.Time) *limiterSet {
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &limiterSet{
		rps:       rps,
		burst:     burst,
		idle:      idle,
		now:       now,
		entries:   map[string]*limiterEntry{},
		lastSweep: now(),
	}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.Sub(s.lastSweep) >= s.idle {
		for k, e := range s.entries {
			if now.Sub(e.seen) >= s.idle {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}
	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.entries[key] = e
	}
	e.seen = now
	return e.limiter
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RateLimit ограничивает частоту запросов отдельно для каждого пользователя
// (или адреса, если вызывающий неизвестен).
func RateLimit(log *slog.Logger, rps float64, burst int) func(http.Handler) http.Handler {
	limiters := newLimiterSet(rps, burst, limiterIdleTTL, time.Now)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if caller, ok := access.CallerFrom(r.Context()); ok {
				key = caller.ID
			}
			if !limiters.get(key).Allow() {
				log.Warn("too many requests", slog.String("key", key))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
