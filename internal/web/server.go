package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/intelligrit/gtd-map/internal/dashboard"
)

// Server serves the dashboard JSON API.
type Server struct {
	Dashboard *dashboard.Builder
	Addr      string
	Log       *zap.Logger

	// RateLimit is requests per second per client. Zero disables limiting.
	RateLimit float64
	Burst     int

	// DefaultStart and DefaultEnd are the month positions used when a
	// request omits start or end.
	DefaultStart int
	DefaultEnd   int

	// DefaultFromYear and DefaultToYear are the world chart years used when
	// a request omits from or to. Zero means the dataset's year span.
	DefaultFromYear int
	DefaultToYear   int
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Handler builds the routed, instrumented handler. Each call gets its own
// metrics registry.
func (s *Server) Handler() http.Handler {
	m := newMetrics()
	mux := http.NewServeMux()

	routes := map[string]http.HandlerFunc{
		"/api/countries":      s.handleCountries,
		"/api/options":        s.handleOptions,
		"/api/months":         s.handleMonths,
		"/api/date-label":     s.handleDateLabel,
		"/api/title":          s.handleTitle,
		"/api/country/map":    s.handleCountryMap,
		"/api/country/bars":   s.handleCountryBars,
		"/api/country/actors": s.handleCountryActors,
		"/api/world/map":      s.handleWorldMap,
		"/api/world/bars":     s.handleWorldBars,
		"/api/world/top":      s.handleWorldTop,
		"/healthz":            s.handleHealth,
	}
	for path, h := range routes {
		mux.Handle("GET "+path, m.instrument(path, h))
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	var h http.Handler = mux
	if s.RateLimit > 0 {
		h = rateLimit(newClientLimiter(s.RateLimit, s.Burst), h)
	}
	return requestLog(s.logger(), h)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger().Info("serving", zap.String("addr", "http://"+s.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
