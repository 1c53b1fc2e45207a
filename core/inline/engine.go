// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package inline replaces translation calls in Go source with literals.

An [Engine] is built once from [Options]: it loads the catalogs, derives the
plural rule of the primary catalog and prepares the call dispatch table.
After construction it is read-only, and [Engine.RewriteFile] may be called
from several goroutines at once.

For a French catalog,

	msg := __("Hello")
	n := __("%d file", "%d files")
	pick := _p()

becomes

	msg := "Bonjour"
	n := []string{"%d fichier", "%d fichiers"}
	pick := (func(n int) int {
		if n > 1 {
			return 1
		}
		return 0
	})
*/
package inline

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/i18ninline/core/callmatch"
	"codeberg.org/pixivfe/i18ninline/core/catalog"
	"codeberg.org/pixivfe/i18ninline/core/plural"
	"codeberg.org/pixivfe/i18ninline/core/resolve"
	"codeberg.org/pixivfe/i18ninline/core/serialize"
)

var (
	ErrConfig = errors.New("invalid inline configuration")

	errNoTranslation   = errors.New("a translation source is required")
	errPluralFunction  = errors.New("pluralFunction must be a Go function literal")
	errBothTransforms  = errors.New("TransformText and TransformName are mutually exclusive")
	errCatalogLoad     = errors.New("loading catalog")
	errPluralFormsRule = errors.New("bad Plural-Forms header")
)

// Engine rewrites translation calls. Build it with [New].
type Engine struct {
	table      *callmatch.Table
	chain      *resolve.Chain
	serializer *serialize.Serializer
	report     Severity
	pluralFunc string
	rule       *plural.Rule
	entries    int
	log        zerolog.Logger
}

// New loads every catalog and validates the configuration. All errors wrap
// [ErrConfig], or [catalog.ErrMalformed] and friends for unreadable
// catalogs.
func New(opts Options) (*Engine, error) {
	e := &Engine{log: zerolog.Nop()}
	if opts.Logger != nil {
		e.log = *opts.Logger
	}

	if opts.Translation == nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, errNoTranslation)
	}

	report, err := ParseSeverity(string(opts.ReportInvalidAs))
	if err != nil {
		return nil, err
	}

	e.report = report

	e.table, err = callmatch.NewTable(opts.Names, opts.PluralFactoryFunctionName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	primary, primaryCatalog, err := e.open(opts.Translation, opts.IncludeFuzzy)
	if err != nil {
		return nil, err
	}

	links := []resolve.Resolver{primary}

	if opts.FallbackTranslation != nil {
		// The fallback's Plural-Forms header is ignored.
		fallback, _, err := e.open(opts.FallbackTranslation, opts.IncludeFuzzy)
		if err != nil {
			return nil, err
		}

		links = append(links, fallback)
	}

	e.chain = resolve.NewChain(links...)

	e.rule = plural.Default()

	if primaryCatalog != nil && primaryCatalog.PluralForms() != "" {
		rule, err := plural.Parse(primaryCatalog.PluralForms())

		switch {
		case err == nil:
			e.rule = rule
		case opts.PluralFunction != "":
			// Only the plural factory uses the rule, and it is overridden.
			e.log.Warn().
				Err(err).
				Stringer("catalog", opts.Translation).
				Msg("Ignoring malformed Plural-Forms header, pluralFunction is set")
		default:
			return nil, fmt.Errorf("%w: %w %s: %w", ErrConfig, errPluralFormsRule, opts.Translation, err)
		}
	}

	e.pluralFunc = e.rule.GoFunc()

	if opts.PluralFunction != "" {
		expr, err := parser.ParseExpr(opts.PluralFunction)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %w", ErrConfig, errPluralFunction, err)
		}

		if _, ok := expr.(*ast.FuncLit); !ok {
			return nil, fmt.Errorf("%w: %w, got %T", ErrConfig, errPluralFunction, expr)
		}

		e.pluralFunc = opts.PluralFunction
	}

	transform := opts.TransformText

	if opts.TransformName != "" {
		if transform != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, errBothTransforms)
		}

		tag := language.Und
		if primaryCatalog != nil {
			tag = primaryCatalog.Tag()
		}

		transform, err = serialize.Transform(opts.TransformName, tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}

	e.serializer = serialize.New(transform, opts.TransformToSource)

	e.log.Debug().
		Strs("functions", e.table.Names()).
		Str("plural_factory", e.table.PluralFactory()).
		Str("plural_forms", e.rule.String()).
		Str("report_invalid_as", string(e.report)).
		Msg("Inline engine ready")

	return e, nil
}

func (e *Engine) open(src Source, includeFuzzy bool) (resolve.Resolver, *catalog.Catalog, error) {
	r, c, err := src.open(includeFuzzy)
	if err != nil {
		return nil, nil, fmt.Errorf("%w %s: %w", errCatalogLoad, src, err)
	}

	if c != nil {
		e.entries += c.Len()

		e.log.Debug().
			Str("source", src.String()).
			Int("entries", c.Len()).
			Str("language", c.Language()).
			Msg("Loaded catalog")
	}

	return r, c, nil
}

// PluralFunc returns the Go source that plural factory calls are replaced
// with, without the surrounding parentheses.
func (e *Engine) PluralFunc() string { return e.pluralFunc }

// PluralRule returns the rule of the primary catalog, or the default rule.
func (e *Engine) PluralRule() *plural.Rule { return e.rule }

// CatalogEntries returns the number of entries across all loaded catalogs.
func (e *Engine) CatalogEntries() int { return e.entries }

// Table returns the call dispatch table.
func (e *Engine) Table() *callmatch.Table { return e.table }
