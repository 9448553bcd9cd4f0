// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
	nanoid "github.com/jaevor/go-nanoid"
)

// ResetTokenLength is the length of generated password reset tokens.
const ResetTokenLength = 43

// timingPassword is hashed once at startup. Login compares against it when
// the email is unknown so both failure paths pay for one bcrypt compare.
const timingPassword = "no-such-account"

// authService is the session manager. Refresh tokens are registered in the
// revocation store under [store.RefreshTokenKeyPrefix] and are single use:
// rotation consumes the entry with an atomic GETDEL. Logged-out access tokens
// are kept under [store.BlacklistKeyPrefix] until they would expire anyway.
type authService struct {
	userRepository  store.UserRepository
	revocationStore store.RevocationStore

	codec     TokenCodec
	hasher    PasswordHasher
	mailer    Mailer
	validator validators.Validator

	// dummyHash is the hash of timingPassword at the configured cost.
	dummyHash string

	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	passwordResetTTL time.Duration

	appName  string
	resetURL string

	newResetToken func() string
	now           func() time.Time

	logger *logger.Logger
}

// AuthDeps groups the collaborators of [NewAuthService].
type AuthDeps struct {
	UserRepository  store.UserRepository
	RevocationStore store.RevocationStore
	Codec           TokenCodec
	Hasher          PasswordHasher
	Mailer          Mailer
	Validator       validators.Validator
}

func NewAuthService(deps AuthDeps, cfg config.StructuredConfig, logger *logger.Logger) (AuthService, error) {
	newResetToken, err := nanoid.Standard(ResetTokenLength)
	if err != nil {
		return nil, fmt.Errorf("creating reset token generator: %w", err)
	}

	dummyHash, err := deps.Hasher.Hash(timingPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing timing password: %w", err)
	}

	return &authService{
		userRepository:   deps.UserRepository,
		revocationStore:  deps.RevocationStore,
		codec:            deps.Codec,
		hasher:           deps.Hasher,
		mailer:           deps.Mailer,
		validator:        deps.Validator,
		dummyHash:        dummyHash,
		accessTokenTTL:   cfg.App.AccessTokenTTL,
		refreshTokenTTL:  cfg.App.RefreshTokenTTL,
		passwordResetTTL: cfg.App.PasswordResetTTL,
		appName:          appDisplayName(cfg.App.Name),
		resetURL:         cfg.Adapter.Mail.ResetURL,
		newResetToken:    newResetToken,
		now:              time.Now,
		logger:           logger,
	}, nil
}

// Register creates an active account with a bcrypt password hash and queues
// a welcome mail.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("hashing password failed")
		return models.User{}, err
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    normalizeName(req.FirstName),
		LastName:     normalizeName(req.LastName),
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.User{}, ErrEmailTaken
		}
		log.Err(err).Str("func", "*authService.Register").Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	a.sendMail(ctx, welcomeMail(a.appName, user))

	return user, nil
}

func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.TokenPair{}, err
	}

	user, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			a.hasher.Compare(a.dummyHash, req.Password)
			return models.TokenPair{}, ErrInvalidCredentials
		}
		log.Err(err).Str("func", "*authService.Login").Msg("user search by email failed")
		return models.TokenPair{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !a.hasher.Compare(user.PasswordHash, req.Password) {
		log.Info().Str("func", "*authService.Login").Int64("user_id", user.ID).Msg("wrong password")
		return models.TokenPair{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return models.TokenPair{}, ErrInactiveUser
	}

	pair, err := a.issuePair(ctx, user.Email)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err = a.userRepository.UpdateLastLogin(ctx, user.ID, a.now().UTC()); err != nil {
		log.Warn().Err(err).Str("func", "*authService.Login").Int64("user_id", user.ID).
			Msg("updating last login failed")
	}

	return pair, nil
}

// Refresh rotates a refresh token. Of any number of concurrent calls with
// the same token at most one succeeds.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	token, err := a.codec.Verify(refreshToken, models.RefreshToken)
	if err != nil {
		return models.TokenPair{}, ErrInvalidRefreshToken
	}

	owner, ok := a.revocationStore.GetAndDelete(ctx, store.RefreshTokenKeyPrefix+refreshToken)
	if !ok || owner != token.Subject {
		log.Info().Str("func", "*authService.Refresh").Msg("refresh token is not registered")
		return models.TokenPair{}, ErrInvalidRefreshToken
	}

	user, err := a.userRepository.FindUserByEmail(ctx, token.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.TokenPair{}, ErrInvalidRefreshToken
		}
		log.Err(err).Str("func", "*authService.Refresh").Msg("user search by email failed")
		return models.TokenPair{}, fmt.Errorf("user search by email failed: %w", err)
	}
	if !user.IsActive {
		return models.TokenPair{}, ErrInvalidRefreshToken
	}

	return a.issuePair(ctx, user.Email)
}

// Logout blacklists the access token for the rest of its lifetime. A refresh
// token is revoked only when it belongs to the same user.
func (a *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	log := logger.FromContext(ctx)

	access, err := a.codec.Verify(accessToken, models.AccessToken)
	if err != nil {
		return ErrInvalidToken
	}

	if ttl := access.TTL(a.now()); ttl > 0 {
		if !a.revocationStore.Put(ctx, store.BlacklistKeyPrefix+accessToken, access.Subject, ttl) {
			log.Warn().Str("func", "*authService.Logout").Msg("access token was not blacklisted")
		}
	}

	if refreshToken == "" {
		return nil
	}

	refresh, err := a.codec.Verify(refreshToken, models.RefreshToken)
	if err != nil || refresh.Subject != access.Subject {
		log.Info().Str("func", "*authService.Logout").Msg("ignoring foreign or invalid refresh token")
		return nil
	}
	a.revocationStore.Delete(ctx, store.RefreshTokenKeyPrefix+refreshToken)

	return nil
}

func (a *authService) ResolveCurrentUser(ctx context.Context, accessToken string) (models.User, error) {
	token, err := a.codec.Verify(accessToken, models.AccessToken)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	if a.revocationStore.Exists(ctx, store.BlacklistKeyPrefix+accessToken) {
		return models.User{}, ErrInvalidToken
	}

	user, err := a.userRepository.FindUserByEmail(ctx, token.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrInvalidToken
		}
		logger.FromContext(ctx).Err(err).Str("func", "*authService.ResolveCurrentUser").
			Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}
	if !user.IsActive {
		return models.User{}, ErrInactiveUser
	}

	return user, nil
}

// UpdateProfile applies the names present in req. An explicit null or a
// blank name clears it.
func (a *authService) UpdateProfile(ctx context.Context, user models.User, req models.UpdateProfileRequest) (models.User, error) {
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	if req.FirstName.Set {
		user.FirstName = normalizeName(req.FirstName.Ptr())
	}
	if req.LastName.Set {
		user.LastName = normalizeName(req.LastName.Ptr())
	}

	updated, err := a.userRepository.UpdateProfile(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrInvalidToken
		}
		logger.FromContext(ctx).Err(err).Str("func", "*authService.UpdateProfile").
			Int64("user_id", user.ID).Msg("profile update failed")
		return models.User{}, fmt.Errorf("profile update failed: %w", err)
	}

	return updated, nil
}

func (a *authService) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return err
	}

	user, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNoUserWasFound) {
			log.Err(err).Str("func", "*authService.RequestPasswordReset").Msg("user search by email failed")
		}
		return nil
	}

	token := a.newResetToken()
	if !a.revocationStore.Put(ctx, store.PasswordResetKeyPrefix+token, user.Email, a.passwordResetTTL) {
		log.Warn().Str("func", "*authService.RequestPasswordReset").Int64("user_id", user.ID).
			Msg("reset token was not stored, skipping mail")
		return nil
	}

	a.sendMail(ctx, passwordResetMail(a.appName, a.resetURL, token, user, humanizeTTL(a.passwordResetTTL)))

	return nil
}

// ResetPassword redeems a reset token. The token is consumed before the
// password changes, so it cannot be replayed even if the update fails.
func (a *authService) ResetPassword(ctx context.Context, req models.PasswordResetConfirm) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return err
	}

	email, ok := a.revocationStore.GetAndDelete(ctx, store.PasswordResetKeyPrefix+req.Token)
	if !ok {
		return ErrInvalidResetToken
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrInvalidResetToken
		}
		log.Err(err).Str("func", "*authService.ResetPassword").Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	hash, err := a.hasher.Hash(req.NewPassword)
	if err != nil {
		log.Err(err).Str("func", "*authService.ResetPassword").Msg("hashing password failed")
		return err
	}

	if err = a.userRepository.UpdatePassword(ctx, user.ID, hash); err != nil {
		log.Err(err).Str("func", "*authService.ResetPassword").Int64("user_id", user.ID).
			Msg("password update failed")
		return fmt.Errorf("password update failed: %w", err)
	}

	return nil
}

// issuePair issues an access and a refresh token for subject and registers
// the refresh token. A failed registration is logged: the pair is still
// usable until the access token expires.
func (a *authService) issuePair(ctx context.Context, subject string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	access, err := a.codec.Issue(subject, models.AccessToken, a.accessTokenTTL)
	if err != nil {
		log.Err(err).Str("func", "*authService.issuePair").Msg("issuing access token failed")
		return models.TokenPair{}, err
	}
	refresh, err := a.codec.Issue(subject, models.RefreshToken, a.refreshTokenTTL)
	if err != nil {
		log.Err(err).Str("func", "*authService.issuePair").Msg("issuing refresh token failed")
		return models.TokenPair{}, err
	}

	if !a.revocationStore.Put(ctx, store.RefreshTokenKeyPrefix+refresh.SignedString, subject, a.refreshTokenTTL) {
		log.Warn().Str("func", "*authService.issuePair").Msg("refresh token was not registered")
	}

	return models.TokenPair{
		AccessToken:  access.SignedString,
		RefreshToken: refresh.SignedString,
		TokenType:    "bearer",
		ExpiresIn:    int64(a.accessTokenTTL / time.Second),
	}, nil
}

func (a *authService) sendMail(ctx context.Context, mail models.Mail) {
	if err := a.mailer.Send(ctx, mail); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "*authService.sendMail").
			Str("subject", mail.Subject).
			Msg("mail was not sent")
	}
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// appDisplayName turns "TaskFlow API" into "TaskFlow" for mail texts.
func appDisplayName(name string) string {
	name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), "API"))
	if name == "" {
		return "TaskFlow"
	}
	return name
}

func humanizeTTL(ttl time.Duration) string {
	switch {
	case ttl == time.Hour:
		return "1 hour"
	case ttl%time.Hour == 0:
		return fmt.Sprintf("%d hours", ttl/time.Hour)
	case ttl%time.Minute == 0:
		return fmt.Sprintf("%d minutes", ttl/time.Minute)
	default:
		return ttl.String()
	}
}
