// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n is the small runtime companion of i18n-inline. Rewritten
programs no longer look anything up: translation calls have become string
literals, plural calls have become []string literals and the plural factory
_p() has become a function literal. What is left at runtime is choosing a
plural variant and filling in placeholders.

# Plurals

	var pluralFor = _p()

	files := __("{count} file", "{count} files")
	msg := f.Plural(files, pluralFor, n, i18n.V("count", n))

[Pick] selects the variant for an index. When the catalog provides fewer
forms than the plural function asks for, it falls back to the form at index
1, then to the form at index 0.

# Placeholders

[Formatter.Format] replaces {name} placeholders with values from [Vars].
Unknown placeholders are left as written, and a warning is logged once per
text. Parsed texts are kept in a per-Formatter LRU cache; there is no package
level state.

# templ

[Text] renders a translated string as an escaped templ component, for use as

	@i18n.Text(__("Settings"))
*/
package i18n
