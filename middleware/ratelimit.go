package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// slidingWindow 按 key 记录窗口内的请求时间
type slidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
	}
}

// recent 丢弃 cutoff 之前的时间，原地复用切片
func recent(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// allow 记录一次请求，超过上限返回 false 且不计数
func (w *slidingWindow) allow(key string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	ts := recent(w.hits[key], now.Add(-w.window))
	if len(ts) >= w.limit {
		w.hits[key] = ts
		return false
	}
	w.hits[key] = append(ts, now)
	return true
}

// sweep 清理已经没有有效记录的 key
func (w *slidingWindow) sweep(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-w.window)
	for key, ts := range w.hits {
		if ts = recent(ts, cutoff); len(ts) == 0 {
			delete(w.hits, key)
		} else {
			w.hits[key] = ts
		}
	}
}

// RateLimit 按客户端 IP 的滑动窗口限流
// 每个 IP 在 window 内最多 maxAttempts 次请求，超过则返回 429
func RateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	limiter := newSlidingWindow(maxAttempts, window)
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			limiter.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
