// Package middleware holds the HTTP middleware shared by the service modules:
// request logging, recovery, CORS, metrics hooks and bearer-token auth.
package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Middleware wraps a handler.
type Middleware = func(http.Handler) http.Handler

// Stack is an ordered middleware list. The first entry added is the outermost.
type Stack []Middleware

// Use appends mw to the stack.
func (s *Stack) Use(mw Middleware) {
	*s = append(*s, mw)
}

// Apply wraps handler with every middleware in the stack.
func (s Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s) - 1; i >= 0; i-- {
		handler = s[i](handler)
	}
	return handler
}

// Recover converts a panicking handler into a 500 response and logs the stack.
// Template execution over spreadsheet content is the usual source.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error(
					"handler panic",
					"uri", requestURI(r),
					"panic", v,
					"stack", string(debug.Stack()),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestURI prefers the URI as received, which survives module prefix stripping.
func requestURI(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}
