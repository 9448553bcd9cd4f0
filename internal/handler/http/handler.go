package http

import (
	"net/netip"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/ratelimit"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
)

type Handler struct {
	services *service.Services

	// limiter is optional; a nil limiter admits every request.
	limiter ratelimit.Limiter
	limits  config.RateLimit

	// trustedProxies are the peers allowed to report the client address
	// through forwarding headers.
	trustedProxies []netip.Prefix

	requestTimeout time.Duration
	traceIDs       *utils.UUIDGenerator
	now            func() time.Time

	logger *logger.Logger
}

func NewHandler(services *service.Services, limiter ratelimit.Limiter, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	trustedProxies, err := cfg.Server.TrustedProxyPrefixes()
	if err != nil {
		// validated at startup; ignore forwarding headers altogether
		logger.Err(err).Str("func", "NewHandler").Msg("invalid trusted proxies, using socket peer only")
		trustedProxies = nil
	}

	logger.Info().Int("trusted_proxies", len(trustedProxies)).Msg("http handler created")
	return &Handler{
		services:       services,
		limiter:        limiter,
		limits:         cfg.RateLimit,
		trustedProxies: trustedProxies,
		requestTimeout: cfg.Server.RequestTimeout,
		traceIDs:       utils.NewUUIDGenerator(),
		now:            time.Now,
		logger:         logger,
	}
}
