package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

// TokenCodec issues and verifies signed, typed, time-bound tokens.
type TokenCodec interface {
	Issue(subject string, tokenType models.TokenType, ttl time.Duration) (models.Token, error)

	// Verify returns [ErrInvalidToken] for every failure: bad signature,
	// foreign algorithm or issuer, expiry, wrong type.
	Verify(tokenString string, expected models.TokenType) (models.Token, error)
}

// PasswordHasher is a one-way password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// Mailer delivers outbound email. Services treat delivery as best effort.
type Mailer interface {
	Send(ctx context.Context, mail models.Mail) error
}

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	ResolveCurrentUser(ctx context.Context, accessToken string) (models.User, error)
	UpdateProfile(ctx context.Context, user models.User, req models.UpdateProfileRequest) (models.User, error)

	// RequestPasswordReset never reports whether the email exists.
	RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error
	ResetPassword(ctx context.Context, req models.PasswordResetConfirm) error
}

type CategoryService interface {
	List(ctx context.Context, userID int64, page models.Page) ([]models.Category, error)
	Create(ctx context.Context, userID int64, req models.CategoryCreateRequest) (models.Category, error)
	Get(ctx context.Context, userID, categoryID int64) (models.Category, error)
	Update(ctx context.Context, userID, categoryID int64, req models.CategoryUpdateRequest) (models.Category, error)

	// Delete returns the number of tasks moved to "Uncategorized".
	Delete(ctx context.Context, userID, categoryID int64) (int64, error)
	ListTasks(ctx context.Context, userID, categoryID int64, page models.Page, includeDeleted bool) (models.TaskPage, error)
}

type TaskService interface {
	List(ctx context.Context, userID int64, params models.TaskListParams) (models.TaskPage, error)
	Create(ctx context.Context, userID int64, req models.TaskCreateRequest) (models.Task, error)
	Get(ctx context.Context, userID, taskID int64, includeDeleted bool) (models.Task, error)
	Update(ctx context.Context, userID, taskID int64, req models.TaskUpdateRequest) (models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
	Restore(ctx context.Context, userID, taskID int64) (models.Task, error)
	Archive(ctx context.Context, userID, taskID int64) (models.Task, error)
	Stats(ctx context.Context, userID int64) (models.TaskStats, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetAppInfo(ctx context.Context) models.AppInfo
}
