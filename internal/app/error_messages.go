// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the error kinds and the message strings shared by the
// service layer, the HTTP handlers and the middleware.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded as JSON.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned for every error that is not one of
	// the business error kinds. The cause is only logged.
	MsgInternalServerError = "internal server error"

	MsgInvalidCredentials   = "Incorrect email or password"
	MsgInactiveUser         = "Inactive user"
	MsgInvalidToken         = "Could not validate credentials"
	MsgInvalidRefreshToken  = "Invalid refresh token"
	MsgNotAuthenticated     = "Not authenticated"
	MsgEmailAlreadyExists   = "User with this email already exists"
	MsgInvalidResetToken    = "Invalid or expired reset token"
	MsgPasswordResetSent    = "If an account with this email exists, a password reset link has been sent."
	MsgPasswordResetSuccess = "Password reset successfully"
	MsgLoggedOut            = "Successfully logged out"

	MsgCategoryNotFound      = "Category not found"
	MsgCategoryAlreadyExists = "Category with this name already exists"
	MsgDefaultCategoryLocked = "Cannot delete or rename the default category"
	MsgCategoryDeleted       = "Category deleted successfully"

	MsgTaskNotFound         = "Task not found"
	MsgTaskNotDeleted       = "Task is not deleted"
	MsgTaskNotDone          = "Only completed tasks can be archived"
	MsgArchivedStatusLocked = "Tasks can only be archived through the archive action"
	MsgTaskDeleted          = "Task deleted successfully"

	// MsgValidationFailed is the top-level message of a validation error;
	// the individual violations are listed in the details.
	MsgValidationFailed = "Validation error"

	MsgAuthRateLimited    = "Too many authentication attempts. Please try again later."
	MsgGeneralRateLimited = "Rate limit exceeded. Please try again later."

	// MsgNotFound answers unknown routes and unsupported methods.
	MsgNotFound = "Not found"
)
