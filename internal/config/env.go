// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment following the `env` and
// `envPrefix` tags on [StructuredConfig]. Unset variables leave fields at
// their zero value so later layers can supply them.
func parseEnv(cfg any) error {
	err := env.Parse(cfg)
	if err == nil {
		return nil
	}

	var agg env.AggregateError
	if errors.As(err, &agg) {
		return fmt.Errorf("environment config: %d invalid variable(s): %w", len(agg.Errors), err)
	}
	return fmt.Errorf("environment config: %w", err)
}
