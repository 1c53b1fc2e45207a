// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

// Pick returns variants[index]. A missing or empty slot falls back to slot 1,
// then slot 0. Pick never panics; it returns "" only when every candidate is
// absent.
func Pick(variants []string, index int) string {
	for _, i := range [...]int{index, 1, 0} {
		if i >= 0 && i < len(variants) && variants[i] != "" {
			return variants[i]
		}
	}

	return ""
}
