package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/mizutori/nosread/internal/application/reader"
	"github.com/mizutori/nosread/internal/relay"
)

// Server exposes the standard gRPC health service: SERVING while the
// relay session is open, NOT_SERVING otherwise.
type Server struct {
	server   *grpc.Server
	listener net.Listener
	health   *health.Server
	reader   *reader.Reader
	logger   *zap.Logger
	done     chan struct{}
}

// Config holds gRPC server configuration
type Config struct {
	Port   int
	Reader *reader.Reader
	Logger *zap.Logger
}

// NewServer creates a new gRPC server
func NewServer(cfg *Config) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		server:   grpcServer,
		listener: listener,
		health:   healthServer,
		reader:   cfg.Reader,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}, nil
}

// Start starts the gRPC server and the health status updater
func (s *Server) Start() error {
	s.logger.Info("starting gRPC server", zap.String("addr", s.listener.Addr().String()))

	go s.watchSession()

	if err := s.server.Serve(s.listener); err != nil {
		return fmt.Errorf("failed to serve gRPC: %w", err)
	}

	return nil
}

// watchSession mirrors the relay session state into the health
// service
func (s *Server) watchSession() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			status := healthpb.HealthCheckResponse_NOT_SERVING
			if s.reader.State() == relay.StateOpen {
				status = healthpb.HealthCheckResponse_SERVING
			}
			s.health.SetServingStatus("", status)
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down gRPC server")

	close(s.done)
	s.health.Shutdown()
	s.server.GracefulStop()

	s.logger.Info("gRPC server shut down complete")
	return nil
}
