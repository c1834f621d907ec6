package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterSetup struct {
	Router *mux.Router
	Prefix string
}

func NewRouterSetup(prefix string, router *mux.Router) *RouterSetup {
	return &RouterSetup{
		Router: router,
		Prefix: prefix,
	}
}

// HandleFunc is a replacement for mux.HandleFunc which enriches the handler's
// HTTP instrumentation with the pattern as the http.route.
func (r *RouterSetup) HandleFunc(path string, f func(http.ResponseWriter, *http.Request)) {
	pattern := fmt.Sprintf("%s%s", r.Prefix, path)
	handler := otelhttp.WithRouteTag(pattern, http.HandlerFunc(f))
	r.Router.Handle(pattern, handler)
}
