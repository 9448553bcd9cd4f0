package http

import (
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/ratelimit"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"

	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
)

// withRateLimit admits requests per client address and endpoint class. The
// limiter degrades to its in-process fallback on its own; an error that
// still reaches this middleware lets the request through.
func (h *Handler) withRateLimit(class ratelimit.Class) func(http.Handler) http.Handler {
	limit, rejection := h.limits.GeneralLimit, ErrGeneralRateLimited
	if class == ratelimit.ClassAuth {
		limit, rejection = h.limits.AuthLimit, ErrAuthRateLimited
	}
	window := h.limits.Window

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h.limiter == nil || limit <= 0 || window <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := ratelimit.Key(class, h.clientIdentity(r))
			result, err := h.limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				logger.FromRequest(r).Warn().Err(err).
					Str("func", "*Handler.withRateLimit").
					Str("key", key).
					Msg("rate limiter failed, request admitted")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(headerRateLimitLimit, strconv.Itoa(result.Limit))
			w.Header().Set(headerRateLimitRemaining, strconv.Itoa(result.Remaining))

			if !result.Allowed {
				w.Header().Set(headerRetryAfter, retryAfterSeconds(result.RetryAfter))
				writeError(w, r, rejection)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIdentity is the IP the limiter keys on. It is the socket peer
// unless that peer is a trusted proxy, in which case X-Forwarded-For is
// walked right to left and the first hop outside the trusted set wins.
// X-Real-IP is consulted only when X-Forwarded-For is absent.
func (h *Handler) clientIdentity(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || !h.isTrustedProxy(peerAddr) {
		return peer
	}

	if forwarded := r.Header.Values(headerForwardedFor); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		client := peerAddr
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			client = hop.Unmap()
			if !h.isTrustedProxy(client) {
				break
			}
		}
		return client.String()
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get(headerRealIP))); err == nil {
		return realIP.Unmap().String()
	}

	return peer
}

func (h *Handler) isTrustedProxy(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range h.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func retryAfterSeconds(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
