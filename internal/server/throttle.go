package server

import (
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"time"
)

type throttleBucket struct {
	ticker  *time.Ticker
	tickets chan struct{}
}

// throttle limits each client bucket to maxConcurrent in-flight requests,
// admitted at most once per period. Requests beyond that are rejected.
type throttle struct {
	buckets         []throttleBucket
	tooManyRequests http.Handler
}

func newThrottle(buckets int, period time.Duration, maxConcurrent int, tooManyRequests http.Handler) *throttle {
	b := make([]throttleBucket, buckets)
	for i := range buckets {
		b[i] = throttleBucket{
			ticker:  time.NewTicker(period),
			tickets: make(chan struct{}, maxConcurrent),
		}
	}

	return &throttle{
		buckets:         b,
		tooManyRequests: tooManyRequests,
	}
}

func clientBucket(r *http.Request, n int) int {
	var bucket int
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		h := fnv.New64()
		io.WriteString(h, host)
		bucket = int(h.Sum64() % uint64(n))
	}
	return bucket
}

func (t *throttle) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bucket := t.buckets[clientBucket(r, len(t.buckets))]

		select {
		case bucket.tickets <- struct{}{}:
			defer func() { <-bucket.tickets }()

			select {
			case <-bucket.ticker.C:
			case <-r.Context().Done():
				return
			}
			next.ServeHTTP(w, r)

		default:
			t.tooManyRequests.ServeHTTP(w, r)
		}
	})
}
