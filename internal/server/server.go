package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/handler"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/workers"
)

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer

	// background may be nil.
	background      workers.Worker
	shutdownTimeout time.Duration

	logger *logger.Logger
}

// NewServer creates the servers for the configured addresses. background
// workers are started before the servers and stopped after them.
func NewServer(handlers *handler.Handlers, background workers.Worker, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{
		background:      background,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

// RunServer blocks until SIGTERM, SIGINT or SIGQUIT and then shuts down.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := s.run(ctx); err != nil {
		s.logger.Err(err).Str("func", "*server.RunServer").Msg("error running server")
	}
}

func (s *server) Shutdown() {
	// finish HTTP server
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}

	// finish gRPC server
	if s.gRPCServer != nil {
		s.gRPCServer.Shutdown()
	}

	// drain queued mail and stop scheduled jobs
	if s.background != nil {
		ctx := context.Background()
		if s.shutdownTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
			defer cancel()
		}
		if err := s.background.Stop(ctx); err != nil {
			s.logger.Err(err).Str("func", "*server.Shutdown").Msg("background workers did not stop cleanly")
		}
	}
}

// run starts everything and blocks until ctx is done.
func (s *server) run(ctx context.Context) error {
	if err := s.start(); err != nil {
		return err
	}

	<-ctx.Done()
	s.Shutdown()
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}

// start binds the listeners and launches the workers and servers without
// blocking.
func (s *server) start() error {
	// check if any server was created
	if s.httpServer == nil && s.gRPCServer == nil {
		return errNoServersToRun
	}

	if s.httpServer != nil {
		if err := s.httpServer.listen(); err != nil {
			return fmt.Errorf("HTTP listen: %w", err)
		}
	}
	if s.gRPCServer != nil {
		if err := s.gRPCServer.listen(); err != nil {
			if s.httpServer != nil {
				s.httpServer.listener.Close()
			}
			return fmt.Errorf("gRPC listen: %w", err)
		}
	}

	if s.background != nil {
		s.logger.Info().Msg("Launching background workers")
		s.background.Run()
	}

	// launch all created servers
	if s.httpServer != nil {
		s.logger.Info().Str("address", s.httpServer.listener.Addr().String()).Msg("Launching HTTP server")
		go s.httpServer.RunServer()
	}
	if s.gRPCServer != nil {
		s.logger.Info().Str("address", s.gRPCServer.gRPCNetListener.Addr().String()).Msg("Launching gRPC server")
		go s.gRPCServer.RunServer()
	}

	return nil
}
