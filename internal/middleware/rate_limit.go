package middleware

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
)

// -----------------------------------------------------------------------------
// Rate Limiting Middleware
// -----------------------------------------------------------------------------
// Başvuru gönderimi istemci IP'si başına token bucket ile sınırlanır.
// Bucket'lar golang.org/x/time/rate ile tutulur; uzun süre kullanılmayan
// bucket'lar arka planda temizlenir. Close() temizlik goroutine'ini durdurur.
// -----------------------------------------------------------------------------

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter, anahtar (IP) başına bir rate.Limiter tutar.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRateLimiter, dakikada perMinute istek ve burst kapasiteli limiter
// oluşturur. cleanupInterval <= 0 ise temizlik goroutine'i başlatılmaz.
func NewRateLimiter(perMinute, burst int, cleanupInterval time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
		cancel:   cancel,
	}

	if cleanupInterval > 0 {
		rl.wg.Add(1)
		go rl.cleanupLoop(ctx, cleanupInterval)
	}
	return rl
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context, interval time.Duration) {
	defer rl.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
}

// Close, temizlik goroutine'ini durdurur ve bitmesini bekler.
func (rl *RateLimiter) Close() {
	rl.cancel()
	rl.wg.Wait()
}

// Allow, key için bir token harcar. İzin yoksa tekrar deneme süresini döner.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	now := rl.now()
	v.lastSeen = now
	rl.mu.Unlock()

	reservation := v.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Minute
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// Middleware, limiter'ı istemci IP'sine göre uygular.
func (rl *RateLimiter) Middleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := request.ClientIP(r)

			allowed, retryAfter := rl.Allow(ip)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
				logger.Printf("🚦 Rate limit aşıldı: %s %s (%s)", r.Method, r.URL.Path, ip)
				response.TooManyRequests(w, fmt.Sprintf("Too many submissions. Please try again in %d seconds.", seconds))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
