// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"codeberg.org/pixivfe/i18ninline/core/callmatch"
	"codeberg.org/pixivfe/i18ninline/core/inline"
)

// SetDefaults populates the configuration with default values.
//
// The function names are left empty: with no name configured the engine
// recognizes __ and _c.
func (cfg *InlineConfig) SetDefaults() {
	cfg.Translation.Translation = ""
	cfg.Translation.FallbackTranslation = ""
	cfg.Translation.IncludeFuzzy = false

	cfg.Functions.PluralFactory = callmatch.DefaultPluralFactory

	cfg.Output.ReportInvalidAs = string(inline.SeverityError)
	cfg.Output.TransformText = "none"
	cfg.Output.Workers = 0

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
