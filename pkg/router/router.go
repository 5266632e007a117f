package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// HandlerFunc is the signature of all domain operations exposed over HTTP.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can enrich the context (e.g.
// with the authenticated user id) or reject the request with an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, with the error the handler
// returned (nil on success).
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	engine  *gin.Engine
	baseCtx context.Context
	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a Router. The given context carries the configs, logger,
// database and any other dependency of the handlers; every request context is
// derived from it.
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{engine: gin.New(), baseCtx: ctx}
}

// Branch returns a new Router sharing the same underlying engine but with an
// independent middleware chain.
func (r *Router) Branch() *Router {
	branch := &Router{engine: r.engine, baseCtx: r.baseCtx}
	branch.befores = append(branch.befores, r.befores...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}).Handler(r.engine)
}
