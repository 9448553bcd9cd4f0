package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

const kindInternalError = "internal_error"

var errorStatusMap = map[error]int{
	app.ErrDuplicateResource:     http.StatusConflict,
	app.ErrNotFound:              http.StatusNotFound,
	app.ErrAuthenticationFailure: http.StatusUnauthorized,
	app.ErrConflict:              http.StatusConflict,
	app.ErrValidation:            http.StatusUnprocessableEntity,
	app.ErrRateLimited:           http.StatusTooManyRequests,
}

// badRequestErrors are validation failures that are not about a field of
// the payload.
var badRequestErrors = []error{
	service.ErrInvalidResetToken,
	ErrInvalidJSON,
}

func statusFromError(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	if status, ok := errorStatusMap[app.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorResponse builds the body for err. Unexpected errors never leak their
// text to the client.
func errorResponse(err error) models.ErrorResponse {
	kind := app.KindOf(err)
	if kind == nil {
		return models.ErrorResponse{
			Error:   true,
			Kind:    kindInternalError,
			Message: app.MsgInternalServerError,
		}
	}

	resp := models.ErrorResponse{
		Error:   true,
		Kind:    kind.Error(),
		Message: err.Error(),
	}

	var violations validators.ValidationErrors
	if errors.As(err, &violations) {
		resp.Message = app.MsgValidationFailed
		resp.Details = make([]models.ErrorDetail, 0, len(violations))
		for _, v := range violations {
			resp.Details = append(resp.Details, models.ErrorDetail{
				Type:    kind.Error(),
				Message: v.Message,
				Field:   v.Field,
			})
		}
		return resp
	}

	var appErr *app.Error
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
	}
	return resp
}

// writeError logs err and answers with the error body and the status code of
// its kind.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	if status == http.StatusInternalServerError {
		log.Err(err).Str("func", "writeError").Msg("unexpected error occurred")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	if _, writeErr := utils.WriteJSON(w, errorResponse(err), status); writeErr != nil {
		log.Err(writeErr).Str("func", "writeError").Msg("error writing error response")
	}
}

func writeSuccess(w http.ResponseWriter, r *http.Request, message string, data any) {
	writeJSON(w, r, models.SuccessResponse{Message: message, Data: data}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "writeJSON").Msg("error writing response")
	}
}
