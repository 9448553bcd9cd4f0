package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Int64("user_id", user.ID).Msg("user registered")
	writeJSON(w, r, models.NewUserResponse(user), http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := h.services.AuthService.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, pair, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := h.services.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, pair, http.StatusOK)
}

// logout blacklists the access token of the request. A refresh token in the
// body is revoked as well.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	accessToken, _ := utils.GetAccessTokenFromContext(r.Context())

	var req models.LogoutRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.Logout(r.Context(), accessToken, req.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, app.MsgLoggedOut, map[string]int64{"user_id": user.ID})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, models.NewUserResponse(user), http.StatusOK)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.services.AuthService.UpdateProfile(r.Context(), user, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.NewUserResponse(updated), http.StatusOK)
}

// requestPasswordReset answers the same way whether or not the email is
// registered.
func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.RequestPasswordReset(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, app.MsgPasswordResetSent, nil)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetConfirm
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.ResetPassword(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, app.MsgPasswordResetSuccess, nil)
}
