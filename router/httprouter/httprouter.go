package httprouter

import (
	"net/http"

	"github.com/grouplet/grouplet/router"
	jshttprouter "github.com/julienschmidt/httprouter"
)

// Router implements router.Router on top of julienschmidt/httprouter.
type Router struct {
	rt *jshttprouter.Router
}

func New() router.Router {
	rt := jshttprouter.New()
	rt.HandleMethodNotAllowed = true
	return &Router{rt: rt}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

func (r *Router) Handle(method, path string, handler http.Handler) {
	r.rt.Handler(method, path, handler)
}

// Param reads a named path parameter that httprouter stored in the request
// context.
func (r *Router) Param(req *http.Request, name string) string {
	params := jshttprouter.ParamsFromContext(req.Context())
	return params.ByName(name)
}
