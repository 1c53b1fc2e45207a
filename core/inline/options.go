// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package inline

import (
	"fmt"

	"github.com/rs/zerolog"

	"codeberg.org/pixivfe/i18ninline/core/callmatch"
	"codeberg.org/pixivfe/i18ninline/core/catalog"
	"codeberg.org/pixivfe/i18ninline/core/resolve"
	"codeberg.org/pixivfe/i18ninline/core/serialize"
)

// Severity is how invalid translation calls are reported.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNone    Severity = "none"
)

// ParseSeverity accepts "error", "warning" and "none". "" means error.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case "", SeverityError:
		return SeverityError, nil
	case SeverityWarning, SeverityNone:
		return Severity(s), nil
	}

	return "", fmt.Errorf("%w: reportInvalidAs must be error, warning or none, got %q", ErrConfig, s)
}

// Source supplies translations: a catalog file, an in-memory catalog, or a
// callback.
type Source interface {
	open(includeFuzzy bool) (resolve.Resolver, *catalog.Catalog, error)
	String() string
}

type fileSource string

// File is a catalog loaded from path with [catalog.Load].
func File(path string) Source { return fileSource(path) }

func (f fileSource) open(includeFuzzy bool) (resolve.Resolver, *catalog.Catalog, error) {
	c, err := catalog.Load(string(f))
	if err != nil {
		return nil, nil, err
	}

	return resolve.FromCatalog(c, includeFuzzy), c, nil
}

func (f fileSource) String() string { return string(f) }

type catalogSource struct{ c *catalog.Catalog }

// Catalog is an already loaded catalog.
func Catalog(c *catalog.Catalog) Source { return catalogSource{c} }

func (s catalogSource) open(includeFuzzy bool) (resolve.Resolver, *catalog.Catalog, error) {
	return resolve.FromCatalog(s.c, includeFuzzy), s.c, nil
}

func (catalogSource) String() string { return "<catalog>" }

type funcSource resolve.Func

// Func is a callback source. A callback has no Plural-Forms header, so a
// callback primary source uses the default plural rule.
func Func(f resolve.Func) Source { return funcSource(f) }

func (f funcSource) open(bool) (resolve.Resolver, *catalog.Catalog, error) {
	return resolve.Func(f), nil, nil
}

func (funcSource) String() string { return "<func>" }

// Options configures an [Engine].
type Options struct {
	// Translation is the primary source. Required.
	Translation Source
	// FallbackTranslation is consulted when the primary has no usable entry.
	FallbackTranslation Source
	// IncludeFuzzy makes fuzzy catalog entries usable.
	IncludeFuzzy bool
	// ReportInvalidAs sets the severity of invalid call diagnostics.
	// "" means error.
	ReportInvalidAs Severity

	// PluralFactoryFunctionName names the zero-argument call replaced by the
	// plural function. "" means _p.
	PluralFactoryFunctionName string
	// PluralFunction, when set, is a Go function literal used instead of the
	// one derived from the primary catalog's Plural-Forms header.
	PluralFunction string

	// Names sets the translation function names.
	Names callmatch.Names

	// TransformText rewrites each translated string before encoding.
	TransformText serialize.TransformFunc
	// TransformName selects a built-in transform, see [serialize.Transform].
	// It is resolved with the primary catalog's language and cannot be
	// combined with TransformText.
	TransformName string
	// TransformToSource replaces the default literal encoding.
	TransformToSource serialize.EncodeFunc

	// Logger receives debug output. nil disables logging.
	Logger *zerolog.Logger
}
