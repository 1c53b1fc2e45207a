// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog holds gettext translation catalogs in a format-independent
shape.

A Catalog maps (context, msgid) pairs to an [Entry]. It is built once by
[Load] or by hand with [New] and [Catalog.Add], and is read-only afterwards,
so lookups are safe for concurrent use.
*/
package catalog

import (
	"strings"

	"golang.org/x/text/language"
)

// Entry is one translated message.
type Entry struct {
	// Variants holds the translated forms: index 0 is the singular form,
	// indices 1 and up are plural forms.
	Variants []string

	// Fuzzy is set for translations flagged as needing review.
	Fuzzy bool

	// Comments holds translator and extracted comments. It is informational.
	Comments []string
}

// usable reports whether every variant is present and non-empty.
func (e *Entry) usable() bool {
	if len(e.Variants) == 0 {
		return false
	}

	for _, v := range e.Variants {
		if v == "" {
			return false
		}
	}

	return true
}

// Catalog is an in-memory translation catalog.
type Catalog struct {
	// entries is keyed by context, then by msgid. The empty context means none.
	entries map[string]map[string]*Entry

	pluralForms string
	language    string
	size        int
}

// New returns an empty catalog with the given Plural-Forms and Language
// header values. Either may be empty.
func New(pluralForms, language string) *Catalog {
	return &Catalog{
		entries:     map[string]map[string]*Entry{},
		pluralForms: strings.TrimSpace(pluralForms),
		language:    strings.TrimSpace(language),
	}
}

// Add stores e under (context, msgid), replacing any previous entry.
// It must not be called once the catalog is shared.
func (c *Catalog) Add(context, msgid string, e *Entry) {
	byID, ok := c.entries[context]
	if !ok {
		byID = map[string]*Entry{}
		c.entries[context] = byID
	}

	if _, exists := byID[msgid]; !exists {
		c.size++
	}

	byID[msgid] = e
}

// Lookup returns the entry for (context, singular). Fuzzy entries are
// reported as missing unless includeFuzzy is set, and so are entries with
// no variants or with any empty variant.
func (c *Catalog) Lookup(context, singular string, includeFuzzy bool) (*Entry, bool) {
	e, ok := c.entries[context][singular]
	if !ok {
		return nil, false
	}

	if e.Fuzzy && !includeFuzzy {
		return nil, false
	}

	if !e.usable() {
		return nil, false
	}

	return e, true
}

// PluralForms returns the raw Plural-Forms header value, or "".
func (c *Catalog) PluralForms() string { return c.pluralForms }

// Language returns the raw Language header value, or "".
func (c *Catalog) Language() string { return c.language }

// Tag returns the catalog language as a BCP 47 tag. Headers such as "pt_BR"
// are accepted; a missing or invalid header yields [language.Und].
func (c *Catalog) Tag() language.Tag {
	if c.language == "" {
		return language.Und
	}

	t, err := language.Parse(strings.ReplaceAll(c.language, "_", "-"))
	if err != nil {
		return language.Und
	}

	return t
}

// Len returns the number of stored entries, usable or not.
func (c *Catalog) Len() int { return c.size }
