// Package service serves formula evaluation over HTTP.
package service

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/observability"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Service is an http.Handler serving POST /evaluate and GET /healthz.
type Service struct {
	cfg     *Config
	allow   *regexp.Regexp
	eval    *formula.Evaluator
	obs     *observability.Config
	handler http.Handler
}

// New creates a service with the given options.
func New(opts ...Option) (*Service, error) {
	cfg := newConfig(opts...)
	s := &Service{
		cfg:  cfg,
		eval: formula.NewEvaluator(),
		obs:  cfg.Observability,
	}
	if cfg.AllowPattern != "" {
		re, err := regexp.Compile(cfg.AllowPattern)
		if err != nil {
			return nil, fmt.Errorf("compiling allow pattern: %w", err)
		}
		s.allow = re
	}
	if s.obs != nil {
		s.obs.Initialize()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/evaluate", s.handleEvaluate)
	mux.HandleFunc("/healthz", handleHealth)
	s.handler = withRequestID(observability.ServerTimingMiddleware(s.obs, mux))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

type contextKey string

const requestIDContextKey contextKey = "requestID"

// withRequestID assigns each request an ID, reusing one the client sent.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the ID assigned to the request with the given context.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
