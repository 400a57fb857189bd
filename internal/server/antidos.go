package server

import (
	"net/http"
	"time"
)

// antidos paces every client bucket to one request per period.
type antidos struct {
	buckets []*time.Ticker
}

func newAntidos(buckets int, period time.Duration) *antidos {
	b := make([]*time.Ticker, buckets)
	for i := range buckets {
		b[i] = time.NewTicker(period)
	}

	return &antidos{
		buckets: b,
	}
}

func (a *antidos) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-a.buckets[clientBucket(r, len(a.buckets))].C:
		case <-r.Context().Done():
			return
		}

		next.ServeHTTP(w, r)
	})
}
