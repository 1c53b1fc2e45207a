// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package config loads the i18n-inline configuration.

Values come from, in increasing precedence: built-in defaults, a YAML or TOML
configuration file, a .env file and I18NINLINE_* environment variables.
Command-line flags are applied by the caller after [InlineConfig.LoadConfig].
*/
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// EnvConfigFile names the configuration file when no -config flag is given.
const EnvConfigFile = "I18NINLINE_CONFIGFILE"

// DefaultConfigFiles are tried in order when neither the flag nor the
// environment names a configuration file.
var DefaultConfigFiles = []string{"./i18n-inline.yaml", "./i18n-inline.yml", "./i18n-inline.toml"}

// InlineConfig holds the tool configuration.
type InlineConfig struct {
	Build buildInfo `toml:"-" yaml:"-"`

	Translation struct {
		Translation         string `env:"I18NINLINE_TRANSLATION,overwrite"          toml:"translation"         yaml:"translation"`
		FallbackTranslation string `env:"I18NINLINE_FALLBACK_TRANSLATION,overwrite" toml:"fallbackTranslation" yaml:"fallbackTranslation"`
		IncludeFuzzy        bool   `env:"I18NINLINE_INCLUDE_FUZZY,overwrite"        toml:"includeFuzzy"        yaml:"includeFuzzy"`
	} `toml:"translation" yaml:"translation"`

	Functions struct {
		Gettext        string `env:"I18NINLINE_GETTEXT,overwrite"         toml:"gettext"        yaml:"gettext"`
		NGettext       string `env:"I18NINLINE_NGETTEXT,overwrite"        toml:"ngettext"       yaml:"ngettext"`
		PGettext       string `env:"I18NINLINE_PGETTEXT,overwrite"        toml:"pgettext"       yaml:"pgettext"`
		NPGettext      string `env:"I18NINLINE_NPGETTEXT,overwrite"       toml:"npgettext"      yaml:"npgettext"`
		PluralFactory  string `env:"I18NINLINE_PLURAL_FACTORY,overwrite"  toml:"pluralFactory"  yaml:"pluralFactory"`
		PluralFunction string `env:"I18NINLINE_PLURAL_FUNCTION,overwrite" toml:"pluralFunction" yaml:"pluralFunction"`
	} `toml:"functions" yaml:"functions"`

	Output struct {
		ReportInvalidAs string `env:"I18NINLINE_REPORT_INVALID_AS,overwrite" toml:"reportInvalidAs" yaml:"reportInvalidAs"`
		TransformText   string `env:"I18NINLINE_TRANSFORM_TEXT,overwrite"    toml:"transformText"   yaml:"transformText"`
		// Template is a text/template producing the replacement source, see
		// serialize.TemplateEncoder.
		Template    string `env:"I18NINLINE_TEMPLATE,overwrite"     toml:"template"    yaml:"template"`
		Dir         string `env:"I18NINLINE_OUTPUT_DIR,overwrite"   toml:"dir"         yaml:"dir"`
		InPlace     bool   `env:"I18NINLINE_IN_PLACE,overwrite"     toml:"inPlace"     yaml:"inPlace"`
		Tests       bool   `env:"I18NINLINE_TESTS,overwrite"        toml:"tests"       yaml:"tests"`
		Workers     int    `env:"I18NINLINE_WORKERS,overwrite"      toml:"workers"     yaml:"workers"`
		MetricsFile string `env:"I18NINLINE_METRICS_FILE,overwrite" toml:"metricsFile" yaml:"metricsFile"`
	} `toml:"output" yaml:"output"`

	Log struct {
		Level   string   `env:"I18NINLINE_LOG_LEVEL,overwrite"   toml:"logLevel"   yaml:"logLevel"`
		Outputs []string `env:"I18NINLINE_LOG_OUTPUTS,overwrite" toml:"logOutputs" yaml:"logOutputs"`
		Format  string   `env:"I18NINLINE_LOG_FORMAT,overwrite"  toml:"logFormat"  yaml:"logFormat"`
	} `toml:"log" yaml:"log"`
}

// LoadConfig loads the configuration. configFilePath may be empty, see
// [ResolveConfigPath].
func (cfg *InlineConfig) LoadConfig(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readFile(configFilePath); err != nil {
		return fmt.Errorf("error loading config file: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	return nil
}

// Finish validates the configuration and sets up logging. Call it after
// command-line overrides have been applied.
func (cfg *InlineConfig) Finish() error {
	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// ResolveConfigPath picks the configuration file: the -config flag when it
// was set, then $I18NINLINE_CONFIGFILE, then the first of
// [DefaultConfigFiles] that exists. It returns "" when there is none.
func ResolveConfigPath(flagValue string, flagSet bool) string {
	if flagSet {
		return flagValue
	}

	if envVar := os.Getenv(EnvConfigFile); envVar != "" {
		return envVar
	}

	for _, path := range DefaultConfigFiles {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	log.Debug().Strs("tried", DefaultConfigFiles).Msg("No configuration file found, using defaults")

	return ""
}
