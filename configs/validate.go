// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"codeberg.org/pixivfe/i18ninline/core/callmatch"
	"codeberg.org/pixivfe/i18ninline/core/inline"
	"codeberg.org/pixivfe/i18ninline/core/serialize"
)

// validation errors.
var (
	errNoTranslation     = errors.New("translation.translation is required")
	errOutputConflict    = errors.New("output.dir and output.inPlace are mutually exclusive")
	errNegativeWorkers   = errors.New("output.workers must not be negative")
	errInvalidLogLevel   = errors.New("log.logLevel must be debug, info, warn or error")
	errInvalidLogFormat  = errors.New("log.logFormat must be console or json")
	errInvalidTransform  = errors.New("invalid output.transformText")
	errInvalidTemplate   = errors.New("invalid output.template")
	errInvalidFunctions  = errors.New("invalid functions")
	errInvalidReportMode = errors.New("invalid output.reportInvalidAs")
)

// validateAndSet validates the configuration. Checks that need the catalogs,
// such as the Plural-Forms header, happen in inline.New.
func (cfg *InlineConfig) validateAndSet() error {
	if cfg.Translation.Translation == "" {
		return errNoTranslation
	}

	if _, err := cfg.names(); err != nil {
		return err
	}

	severity, err := inline.ParseSeverity(cfg.Output.ReportInvalidAs)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidReportMode, err)
	}

	cfg.Output.ReportInvalidAs = string(severity)

	if _, err := serialize.Transform(cfg.Output.TransformText, language.Und); err != nil {
		return fmt.Errorf("%w: %w", errInvalidTransform, err)
	}

	if cfg.Output.Template != "" {
		if _, err := serialize.TemplateEncoder(cfg.Output.Template); err != nil {
			return fmt.Errorf("%w: %w", errInvalidTemplate, err)
		}
	}

	if cfg.Output.Dir != "" && cfg.Output.InPlace {
		return errOutputConflict
	}

	if cfg.Output.Workers < 0 {
		return errNegativeWorkers
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errInvalidLogLevel
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return errInvalidLogFormat
	}

	return nil
}

func (cfg *InlineConfig) names() (*callmatch.Table, error) {
	table, err := callmatch.NewTable(callmatch.Names{
		Gettext:   cfg.Functions.Gettext,
		NGettext:  cfg.Functions.NGettext,
		PGettext:  cfg.Functions.PGettext,
		NPGettext: cfg.Functions.NPGettext,
	}, cfg.Functions.PluralFactory)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidFunctions, err)
	}

	return table, nil
}
