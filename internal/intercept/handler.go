package intercept

import (
	"net/http"
	"net/url"
	"strconv"
)

// Middleware answers requests found in the index and passes everything
// else to next. A nil next responds 404 on a miss.
func (rt *Runtime) Middleware(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		f, ok := rt.lookup(requestURL(r))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		h := w.Header()
		h.Set("Content-Type", f.MIME)
		h.Set("Cache-Control", "no-store")
		h.Set("Content-Length", strconv.Itoa(len(f.Content)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(f.Content)
		}
	})
}

// requestURL reconstructs the absolute URL a server-side request was made for.
func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path}
}
