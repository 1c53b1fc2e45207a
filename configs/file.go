// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

var errConfigFormat = errors.New("configuration file must be .yaml, .yml or .toml")

// readFile merges the YAML or TOML file at configFilePath into cfg. A missing
// file is not an error.
func (cfg *InlineConfig) readFile(configFilePath string) error {
	if configFilePath == "" {
		return nil
	}

	_, err := os.Stat(configFilePath)
	if os.IsNotExist(err) {
		log.Info().
			Str("path", configFilePath).
			Msg("No configuration file found, skipping")

		return nil
	}

	data, err := os.ReadFile(configFilePath) // #nosec G304 -- Only loading a config file
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", configFilePath, err)
	}

	switch strings.ToLower(filepath.Ext(configFilePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML from %s: %w", configFilePath, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("failed to parse TOML from %s: %w", configFilePath, err)
		}

		for _, key := range md.Undecoded() {
			log.Warn().
				Str("path", configFilePath).
				Str("key", key.String()).
				Msg("Unknown configuration key")
		}
	default:
		return fmt.Errorf("%w, got %s", errConfigFormat, configFilePath)
	}

	log.Info().
		Str("path", configFilePath).
		Msg("Successfully loaded configuration")

	return nil
}
