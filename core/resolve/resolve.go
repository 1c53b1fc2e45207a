// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package resolve turns a translation request into a value by asking an
// ordered chain of sources and falling back to the untranslated text.
package resolve

import (
	"codeberg.org/pixivfe/i18ninline/core/catalog"
)

// Request identifies one translatable message at a call site.
type Request struct {
	// Context disambiguates identical msgids; "" means none.
	Context string
	// Singular is the msgid. It is never empty.
	Singular string
	// Plural is the msgid_plural; "" means no plural was requested.
	Plural string
}

// IsPlural reports whether the request asks for plural forms.
func (r Request) IsPlural() bool { return r.Plural != "" }

// Result is a resolved value. The zero Result means nothing was found.
type Result struct {
	Variants []string
	// List marks an ordered sequence of forms rather than a single string.
	List bool
}

// Text returns a found scalar result.
func Text(s string) Result {
	return Result{Variants: []string{s}}
}

// List returns a found list result.
func List(variants ...string) Result {
	return Result{Variants: variants, List: true}
}

// Found reports whether r holds a value.
func (r Result) Found() bool { return len(r.Variants) > 0 }

// At returns the variant for index, degrading to slot 1 and then slot 0 when
// the requested slot is missing or empty. It returns "" only when all three
// are unavailable.
func (r Result) At(index int) string {
	for _, i := range []int{index, 1, 0} {
		if i >= 0 && i < len(r.Variants) && r.Variants[i] != "" {
			return r.Variants[i]
		}
	}

	return ""
}

// Resolver is one source in a resolution chain.
type Resolver interface {
	Resolve(req Request) Result
}

// Func adapts a callback to a [Resolver]. A callback reports "not found" by
// returning the zero Result.
type Func func(req Request) Result

func (f Func) Resolve(req Request) Result { return f(req) }

type catalogResolver struct {
	catalog      *catalog.Catalog
	includeFuzzy bool
}

// FromCatalog returns a resolver backed by c. Plural requests yield every
// variant of the entry as a list; other requests yield the singular form.
func FromCatalog(c *catalog.Catalog, includeFuzzy bool) Resolver {
	return &catalogResolver{catalog: c, includeFuzzy: includeFuzzy}
}

func (cr *catalogResolver) Resolve(req Request) Result {
	e, ok := cr.catalog.Lookup(req.Context, req.Singular, cr.includeFuzzy)
	if !ok {
		return Result{}
	}

	if req.IsPlural() {
		return List(e.Variants...)
	}

	return Text(e.Variants[0])
}

// Untranslated is the terminal resolver. It returns the singular text, or
// [singular, plural] for plural requests.
var Untranslated Resolver = Func(func(req Request) Result {
	if req.IsPlural() {
		return List(req.Singular, req.Plural)
	}

	return Text(req.Singular)
})

// Chain asks its links in order and returns the first found result. Results
// are never merged across links.
type Chain struct {
	links []Resolver
}

// NewChain returns a chain over links followed by [Untranslated]. Nil links
// are skipped.
func NewChain(links ...Resolver) *Chain {
	c := &Chain{links: make([]Resolver, 0, len(links)+1)}

	for _, l := range links {
		if l != nil {
			c.links = append(c.links, l)
		}
	}

	c.links = append(c.links, Untranslated)

	return c
}

// Resolve always returns a found result.
func (c *Chain) Resolve(req Request) Result {
	for _, l := range c.links {
		if r := l.Resolve(req); r.Found() {
			return r
		}
	}

	// Unreachable: Untranslated always finds.
	return Untranslated.Resolve(req)
}
