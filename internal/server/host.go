package server

import (
	"net/http"
)

// hostMiddleware redirects requests for any other host name to host,
// keeping method and body. Health checks are answered on every name.
func hostMiddleware(host string, next http.Handler) http.Handler {
	if host == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Host != host && r.URL.Path != healthPath {
			w.Header().Set("Location", "//"+host+r.URL.RequestURI())
			w.WriteHeader(http.StatusPermanentRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}
