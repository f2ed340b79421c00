package middleware

import (
	"net/http"
	"time"
)

const PruneEvery = pruneEvery

// NewRateLimit returns the limiter middleware driven by now, plus the number
// of clients it currently tracks.
func NewRateLimit(rpm int, now func() time.Time) (func(http.Handler) http.Handler, func() int) {
	l := newRateLimiter(rpm, now)
	return l.middleware, l.size
}
