package service

import (
	"errors"

	"github.com/MKhiriev/go-task-keeper/internal/app"
)

// Business errors. Each wraps an app error kind and carries the message
// shown to the client.
var (
	ErrInvalidCredentials  = app.NewError(app.ErrAuthenticationFailure, app.MsgInvalidCredentials)
	ErrInactiveUser        = app.NewError(app.ErrAuthenticationFailure, app.MsgInactiveUser)
	ErrInvalidToken        = app.NewError(app.ErrAuthenticationFailure, app.MsgInvalidToken)
	ErrInvalidRefreshToken = app.NewError(app.ErrAuthenticationFailure, app.MsgInvalidRefreshToken)
	ErrEmailTaken          = app.NewError(app.ErrDuplicateResource, app.MsgEmailAlreadyExists)

	// ErrInvalidResetToken is answered with 400 rather than 401: the reset
	// form is not an authenticated request.
	ErrInvalidResetToken = app.NewError(app.ErrValidation, app.MsgInvalidResetToken)

	ErrCategoryNotFound      = app.NewError(app.ErrNotFound, app.MsgCategoryNotFound)
	ErrCategoryNameTaken     = app.NewError(app.ErrDuplicateResource, app.MsgCategoryAlreadyExists)
	ErrDefaultCategoryLocked = app.NewError(app.ErrConflict, app.MsgDefaultCategoryLocked)

	ErrTaskNotFound         = app.NewError(app.ErrNotFound, app.MsgTaskNotFound)
	ErrTaskNotDeleted       = app.NewError(app.ErrConflict, app.MsgTaskNotDeleted)
	ErrTaskNotDone          = app.NewError(app.ErrConflict, app.MsgTaskNotDone)
	ErrArchivedStatusLocked = app.NewError(app.ErrConflict, app.MsgArchivedStatusLocked)
)

var (
	ErrTokenCreationFailed   = errors.New("token creation failed")
	ErrHashingPassword       = errors.New("error hashing password")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrEmptySignKey          = errors.New("token sign key is empty")
)
