package router

import "net/http"

// Router is the routing surface the application depends on. Concrete
// implementations live in subpackages so the underlying mux can be swapped
// without touching handler code.
type Router interface {
	http.Handler

	// Handle registers a handler for the given HTTP method and path. Paths
	// may contain named parameters in the implementation's syntax.
	Handle(method, path string, handler http.Handler)

	// Param returns the value of a named path parameter from the request,
	// or the empty string when absent.
	Param(r *http.Request, name string) string
}
