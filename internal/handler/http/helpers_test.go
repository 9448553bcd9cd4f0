package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/ratelimit"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/require"
)

const testAccessToken = "access-token"

var (
	testNow  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	testUser = models.User{ID: 7, Email: "user@example.com", IsActive: true}
)

// ---- function-field mocks ----

type mockAuthService struct {
	registerFn             func(ctx context.Context, req models.RegisterRequest) (models.User, error)
	loginFn                func(ctx context.Context, req models.LoginRequest) (models.TokenPair, error)
	refreshFn              func(ctx context.Context, refreshToken string) (models.TokenPair, error)
	logoutFn               func(ctx context.Context, accessToken, refreshToken string) error
	resolveCurrentUserFn   func(ctx context.Context, accessToken string) (models.User, error)
	updateProfileFn        func(ctx context.Context, user models.User, req models.UpdateProfileRequest) (models.User, error)
	requestPasswordResetFn func(ctx context.Context, req models.PasswordResetRequest) error
	resetPasswordFn        func(ctx context.Context, req models.PasswordResetConfirm) error
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return m.registerFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	return m.refreshFn(ctx, refreshToken)
}

func (m *mockAuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return m.logoutFn(ctx, accessToken, refreshToken)
}

// ResolveCurrentUser accepts testAccessToken when no function is set.
func (m *mockAuthService) ResolveCurrentUser(ctx context.Context, accessToken string) (models.User, error) {
	if m.resolveCurrentUserFn != nil {
		return m.resolveCurrentUserFn(ctx, accessToken)
	}
	if accessToken != testAccessToken {
		return models.User{}, service.ErrInvalidToken
	}
	return testUser, nil
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, user models.User, req models.UpdateProfileRequest) (models.User, error) {
	return m.updateProfileFn(ctx, user, req)
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	return m.requestPasswordResetFn(ctx, req)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, req models.PasswordResetConfirm) error {
	return m.resetPasswordFn(ctx, req)
}

type mockAppInfoService struct {
	info models.AppInfo
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.info.Version
}

func (m *mockAppInfoService) GetAppInfo(_ context.Context) models.AppInfo {
	return m.info
}

// stubLimiter answers every Allow call with result and err and records the
// keys it was asked about.
type stubLimiter struct {
	result ratelimit.Result
	err    error
	keys   []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error) {
	s.keys = append(s.keys, key)
	return s.result, s.err
}

// ---- helpers ----

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		RateLimit: config.RateLimit{
			AuthLimit:    5,
			GeneralLimit: 100,
			Window:       time.Minute,
		},
	}
}

// newTestHandler builds a handler over svcs without a rate limiter. Nil
// auth and app info services are replaced with the default mocks.
func newTestHandler(svcs *service.Services) *Handler {
	if svcs.AuthService == nil {
		svcs.AuthService = &mockAuthService{}
	}
	if svcs.AppInfoService == nil {
		svcs.AppInfoService = &mockAppInfoService{info: models.AppInfo{Name: "TaskFlow API", Version: "1.2.3"}}
	}
	h := NewHandler(svcs, nil, testConfig(), logger.Nop())
	h.now = func() time.Time { return testNow }
	return h
}

// doRequest sends a request through the full router. body is marshalled as
// JSON unless it is a string.
func doRequest(t *testing.T, h *Handler, method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testAccessToken)
	}

	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// nopRequest attaches a discarding logger to a bare request.
func nopRequest(r *http.Request) *http.Request {
	return r.WithContext(logger.Nop().WithContext(r.Context()))
}
