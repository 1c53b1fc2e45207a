// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// print logs the version and, at debug level, the effective configuration.
func (cfg *InlineConfig) print() {
	log.Info().
		Str("version", cfg.Build.Version()).
		Str("revision", cfg.Build.Revision()).
		Msg("Starting i18n-inline")

	configYAML, err := cfg.YAML()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().Msg("Configuration:\n" + string(configYAML))
}

// YAML renders the configuration as a configuration file would hold it.
func (cfg *InlineConfig) YAML() ([]byte, error) {
	return yaml.MarshalWithOptions(cfg, yaml.Indent(2))
}
