// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	if cfg.Storage.Cache.Address == "" {
		return fmt.Errorf("%w: cache address is required", ErrInvalidStorageConfigs)
	}

	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}

	if cfg.App.AccessTokenTTL <= 0 || cfg.App.RefreshTokenTTL <= cfg.App.AccessTokenTTL {
		return fmt.Errorf("%w: refresh token ttl must exceed a positive access token ttl", ErrInvalidAppConfigs)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	if _, err := cfg.Server.TrustedProxyPrefixes(); err != nil {
		return err
	}

	if cfg.RateLimit.AuthLimit <= 0 || cfg.RateLimit.GeneralLimit <= 0 || cfg.RateLimit.Window <= 0 {
		return ErrInvalidRateLimitConfigs
	}

	if _, err := cron.ParseStandard(cfg.RateLimit.SweepSchedule); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRateLimitConfigs, err)
	}

	if cfg.Workers.MailQueueSize <= 0 || cfg.Workers.MailWorkers <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
