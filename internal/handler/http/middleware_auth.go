package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/rs/zerolog"
)

// auth resolves the bearer token of the request to an active user and stores
// both in the request context (see [utils.WithUser]). Blacklisted, expired and
// foreign tokens are rejected with 401; so are tokens of inactive users.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, r, ErrNotAuthenticated)
			return
		}

		accessToken, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Debug().Err(err).Str("func", "*Handler.auth").Send()
			writeError(w, r, ErrNotAuthenticated)
			return
		}

		ctx := r.Context()
		user, err := h.services.AuthService.ResolveCurrentUser(ctx, accessToken)
		if err != nil {
			writeError(w, r, err)
			return
		}

		userLog := log.GetChildLogger()
		userLog.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("user_id", user.ID)
		})
		ctx = userLog.WithContext(utils.WithUser(ctx, user, accessToken))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the user stored by the auth middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, errNoUserInContext)
	}
	return user, ok
}
