// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/rs/zerolog"

	"codeberg.org/pixivfe/i18ninline/core/build"
	"codeberg.org/pixivfe/i18ninline/core/callmatch"
	"codeberg.org/pixivfe/i18ninline/core/inline"
	"codeberg.org/pixivfe/i18ninline/core/serialize"
	"codeberg.org/pixivfe/i18ninline/core/stats"
)

// EngineOptions converts the configuration into engine options.
func (cfg *InlineConfig) EngineOptions(logger *zerolog.Logger) (inline.Options, error) {
	opts := inline.Options{
		Translation:               inline.File(cfg.Translation.Translation),
		IncludeFuzzy:              cfg.Translation.IncludeFuzzy,
		ReportInvalidAs:           inline.Severity(cfg.Output.ReportInvalidAs),
		PluralFactoryFunctionName: cfg.Functions.PluralFactory,
		PluralFunction:            cfg.Functions.PluralFunction,
		Names: callmatch.Names{
			Gettext:   cfg.Functions.Gettext,
			NGettext:  cfg.Functions.NGettext,
			PGettext:  cfg.Functions.PGettext,
			NPGettext: cfg.Functions.NPGettext,
		},
		Logger: logger,
	}

	if cfg.Translation.FallbackTranslation != "" {
		opts.FallbackTranslation = inline.File(cfg.Translation.FallbackTranslation)
	}

	if cfg.Output.TransformText != "none" {
		opts.TransformName = cfg.Output.TransformText
	}

	if cfg.Output.Template != "" {
		encode, err := serialize.TemplateEncoder(cfg.Output.Template)
		if err != nil {
			return inline.Options{}, err
		}

		opts.TransformToSource = encode
	}

	return opts, nil
}

// BuildOptions converts the configuration into host options for patterns.
func (cfg *InlineConfig) BuildOptions(patterns []string, runID string, st *stats.Stats, logger *zerolog.Logger) build.Options {
	return build.Options{
		Patterns: patterns,
		Tests:    cfg.Output.Tests,
		OutDir:   cfg.Output.Dir,
		InPlace:  cfg.Output.InPlace,
		Workers:  cfg.Output.Workers,
		RunID:    runID,
		Stats:    st,
		Logger:   logger,
	}
}
