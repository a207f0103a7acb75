package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
)

// Handler returns the value to encode in the success envelope, or an error
// to encode in the error envelope.
type Handler func(r *Request) (any, error)

type Config struct {
	Config     config.Config
	UUID       uid.StringID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	// PublicEndpoints maps an HTTP method to route patterns that need no
	// bearer token.
	PublicEndpoints map[string][]string
}

// Router dispatches through httprouter behind a fixed middleware chain.
// Per-route middleware runs inside the chain.
type Router struct {
	mux   *httprouter.Router
	chain []Middleware
}

func NewRouter(cfg Config) *Router {
	// edge carries the correlation ID and access log to every response,
	// including the welcome page and the 404/405 fallbacks.
	edge := []Middleware{
		middlewareRecoverer,
		middlewareIP(cfg.Config),
		middlewareCorrelationID(cfg.UUID),
		middlewareObservability(cfg.Config, cfg.Instrument),
	}

	mux := httprouter.New()
	mux.SaveMatchedRoutePath = true
	mux.NotFound = Chain(staticError(http.StatusNotFound, "endpoint not found"), edge...)
	mux.MethodNotAllowed = Chain(staticError(http.StatusMethodNotAllowed, "method not allowed"), edge...)

	welcome := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, successResponse{Message: "Welcome to QuickCart API"}, http.StatusOK)
	})
	mux.Handler(http.MethodGet, "/", Chain(welcome, edge...))

	chain := make([]Middleware, 0, len(edge)+2)
	chain = append(chain, edge...)
	chain = append(chain,
		middlewareMaintenance(cfg.Config),
		middlewareAuthentication(cfg.JWT, publicSet(cfg.PublicEndpoints)),
	)

	return &Router{mux: mux, chain: chain}
}

func (r *Router) GET(path string, h Handler, mws ...Middleware)    { r.handle(http.MethodGet, path, h, mws) }
func (r *Router) POST(path string, h Handler, mws ...Middleware)   { r.handle(http.MethodPost, path, h, mws) }
func (r *Router) PUT(path string, h Handler, mws ...Middleware)    { r.handle(http.MethodPut, path, h, mws) }
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) { r.handle(http.MethodDelete, path, h, mws) }

func (r *Router) handle(method, path string, h Handler, mws []Middleware) {
	final := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			fail(req.Context(), w, err)
			return
		}
		succeed(w, resp)
	})

	chain := make([]Middleware, 0, len(r.chain)+len(mws))
	chain = append(append(chain, r.chain...), mws...)
	r.mux.Handler(method, path, Chain(final, chain...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func staticError(status int, msg string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, errorResponse{Message: msg}, status)
	})
}
