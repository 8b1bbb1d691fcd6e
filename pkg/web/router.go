package web

import "net/http"

// Router maps page views and assets onto a ServeMux. Requests no pattern claims
// are answered by the not-found handler instead of the mux's plain-text 404.
type Router struct {
	mux      *http.ServeMux
	notFound http.Handler
}

// NewRouter creates a Router. A nil notFound keeps the ServeMux default.
func NewRouter(notFound http.Handler) *Router {
	return &Router{mux: http.NewServeMux(), notFound: notFound}
}

// Page registers h for GET requests to view.Route.
func (r *Router) Page(view ViewDef, h http.HandlerFunc) {
	r.mux.HandleFunc(http.MethodGet+" "+view.Route, h)
}

// Handle registers a handler for the given pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// ServeHTTP dispatches to the matching pattern or the not-found handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.notFound != nil {
		if _, pattern := r.mux.Handler(req); pattern == "" {
			r.notFound.ServeHTTP(w, req)
			return
		}
	}
	r.mux.ServeHTTP(w, req)
}
