package gameserver

import (
	"context"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthName is the gRPC health service name reporting the game loop.
const HealthName = "radmud.Loop"

// HealthServer exposes the standard gRPC health protocol. The loop name
// reports SERVING while the game loop runs.
type HealthServer struct {
	addr   string
	logger *zap.Logger
	health *health.Server
	grpc   *grpc.Server

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// NewHealthServer creates a stopped server for addr.
//
// Postcondition: the loop status starts as NOT_SERVING.
func NewHealthServer(addr string, logger *zap.Logger) *HealthServer {
	h := &HealthServer{
		addr:   addr,
		logger: logger,
		health: health.NewServer(),
		grpc:   grpc.NewServer(),
		ready:  make(chan struct{}),
	}
	h.health.SetServingStatus(HealthName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(h.grpc, h.health)
	return h
}

// SetServing updates the loop status. It is meant for WithStatus.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus(HealthName, status)
}

// Start serves until Stop is called.
func (h *HealthServer) Start(context.Context) error {
	lis, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", h.addr, err)
	}
	h.mu.Lock()
	h.listener = lis
	h.mu.Unlock()
	close(h.ready)

	h.logger.Info("health server listening", zap.String("addr", lis.Addr().String()))
	if err := h.grpc.Serve(lis); err != nil {
		return fmt.Errorf("serving health: %w", err)
	}
	return nil
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (h *HealthServer) Stop(context.Context) error {
	h.health.Shutdown()
	h.grpc.GracefulStop()
	return nil
}

// Addr blocks until the server listens and returns its address.
func (h *HealthServer) Addr(ctx context.Context) (string, error) {
	select {
	case <-h.ready:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listener.Addr().String(), nil
}
