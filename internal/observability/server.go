package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MetricsServer serves the Prometheus scrape endpoint at /metrics.
type MetricsServer struct {
	addr   string
	logger *zap.Logger
	srv    *http.Server

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// NewMetricsServer creates a stopped server for addr exposing m.
//
// Precondition: m and logger must be non-nil.
func NewMetricsServer(addr string, m *Metrics, logger *zap.Logger) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &MetricsServer{
		addr:   addr,
		logger: logger,
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ready: make(chan struct{}),
	}
}

// Start serves until Stop is called.
func (s *MetricsServer) Start(context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = lis
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("metrics server listening", zap.String("addr", lis.Addr().String()))
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving metrics: %w", err)
	}
	return nil
}

// Stop drains open scrapes, bounded by ctx.
func (s *MetricsServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Addr blocks until the server listens and returns its address.
func (s *MetricsServer) Addr(ctx context.Context) (string, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener.Addr().String(), nil
}
