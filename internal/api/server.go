// Package api exposes the light service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.uber.org/zap"

	"github.com/scheerer/indicator-lights/internal/arbiter"
	"github.com/scheerer/indicator-lights/internal/logging"
	"github.com/scheerer/indicator-lights/lights"
)

var logger = logging.New("api")

// StateReader is implemented by arbiter.Arbiter.
type StateReader interface {
	Snapshot() arbiter.Snapshot
}

type Options struct {
	Lights lights.Service
	// State backs GET /api/lights/state. Optional.
	State StateReader
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
}

func NewServer(addr string, opts Options) *Server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("Indicator Lights API", "1.0.0")
	config.Info.Description = "Control the backlight and indicator LED"
	config.Servers = []*huma.Server{}

	api := humago.New(mux, config)
	api.UseMiddleware(loggingMiddleware)

	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}
	Register(api, opts)

	return &Server{
		api: api,
		mux: mux,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until Stop is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	logger.With(zap.String("addr", s.httpServer.Addr)).Info("Starting API server")
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	logger.Info("Stopping API server")
	return s.httpServer.Shutdown(ctx)
}

// Register adds every route to api.
func Register(api huma.API, opts Options) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Tags:        []string{"health"},
	}, func(ctx context.Context, input *struct{}) (*HealthResponse, error) {
		resp := &HealthResponse{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	registerLightRoutes(api, opts)
}

type HealthResponse struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

func loggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	next(ctx)

	l := logger.With(
		zap.String("method", ctx.Method()),
		zap.String("path", ctx.URL().Path),
		zap.Int("status", ctx.Status()),
		zap.Duration("duration", time.Since(start)))
	switch status := ctx.Status(); {
	case status >= 500:
		l.Error("HTTP request completed")
	case status >= 400:
		l.Warn("HTTP request completed")
	default:
		l.Debug("HTTP request completed")
	}
}
