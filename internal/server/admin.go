package server

import (
	"crypto/subtle"
	"net/http"
)

const adminKeyName = "X-Admin-Key"

// admin lets a request through only when it carries the admin key in the
// X-Admin-Key header or cookie. Everything else looks like a missing route.
type admin struct {
	key             string
	notFoundHandler http.Handler
}

func newAdmin(key string, notFoundHandler http.Handler) *admin {
	return &admin{
		key:             key,
		notFoundHandler: notFoundHandler,
	}
}

func (a *admin) allowed(r *http.Request) bool {
	if a.key == "" {
		return false
	}

	given := r.Header.Get(adminKeyName)
	if given == "" {
		if cookie, _ := r.Cookie(adminKeyName); cookie != nil {
			given = cookie.Value
		}
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(a.key)) == 1
}

func (a *admin) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.allowed(r) {
			next.ServeHTTP(w, r)
			return
		}

		a.notFoundHandler.ServeHTTP(w, r)
	})
}
