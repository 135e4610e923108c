// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv reads a [StructuredConfig] from the environment. Unset variables
// leave their fields zero so they do not override lower layers on merge.
func parseEnv() (*StructuredConfig, error) {
	cfg, err := env.ParseAs[StructuredConfig]()
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	return &cfg, nil
}
