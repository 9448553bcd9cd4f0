// Package grpc exposes the standard gRPC health checking service
// (grpc.health.v1.Health) for the task server.
package grpc

import (
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "taskkeeper.v1.TaskService"

// Handler is the root gRPC transport handler.
//
// It owns the health server. The status starts as NOT_SERVING and is flipped
// by the server lifecycle once storage and services are up, and back during
// shutdown.
type Handler struct {
	// services is kept for transport methods that need the service layer.
	services *service.Services

	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] with a health server in NOT_SERVING
// state.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.SetServing(false)
	return h
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s grpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(s, h.health)
}

// SetServing updates the overall and the per-service status.
func (h *Handler) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	h.logger.Info().Str("status", status.String()).Msg("gRPC health status changed")
}

// Shutdown sets every status to NOT_SERVING and ignores later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
