package server

import (
	"net"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	myGRPC "github.com/MKhiriev/go-task-keeper/internal/handler/grpc"
	"github.com/MKhiriev/go-task-keeper/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	address         string
	server          *grpc.Server
	gRPCNetListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer()
	handler.Register(server)

	return &grpcServer{
		handler: handler,
		address: cfg.GRPCAddress,
		server:  server,
		logger:  logger,
	}
}

func (g *grpcServer) listen() error {
	lis, err := net.Listen("tcp", g.address)
	if err != nil {
		return err
	}
	g.gRPCNetListener = lis
	return nil
}

// RunServer reports SERVING once the listener is bound.
func (g *grpcServer) RunServer() {
	g.handler.SetServing(true)
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		g.logger.Err(err).Str("func", "*grpcServer.RunServer").Msg("gRPC server Serve failed")
	}
}

// Shutdown flips health to NOT_SERVING before draining in-flight calls.
func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()
	g.server.GracefulStop()
}
