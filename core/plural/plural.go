// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package plural parses gettext Plural-Forms rules such as

	nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);

into a small expression tree. A Rule can be evaluated directly with [Rule.Index]
or rendered as a Go function literal with [Rule.GoFunc], which is what the
plural factory call is rewritten to.

Rules are never handed to a general purpose evaluator: the accepted grammar is
the C subset gettext documents, over the single variable n.
*/
package plural

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultForms is the rule used when a catalog carries no Plural-Forms header.
const DefaultForms = "nplurals=2; plural=(n != 1);"

var (
	ErrInvalidRule = errors.New("invalid plural rule")

	errMissingNPlurals = errors.New("missing nplurals")
	errMissingPlural   = errors.New("missing plural expression")
	errBadNPlurals     = errors.New("nplurals must be a positive integer")
)

// Rule is a parsed Plural-Forms rule. The zero value is not usable; use
// [Parse] or [Default]. A Rule is immutable and safe for concurrent use.
type Rule struct {
	nplurals int
	expr     string
	root     node
}

// Default returns the two-form rule: index 1 if n != 1, else index 0.
func Default() *Rule {
	r, err := Parse(DefaultForms)
	if err != nil {
		panic(err)
	}

	return r
}

// Parse parses a Plural-Forms header value, for example
// "nplurals=2; plural=(n > 1);". Keys are case-insensitive, the trailing
// semicolon is optional and escaped newlines are ignored.
//
// Malformed rules return an error wrapping [ErrInvalidRule].
func Parse(header string) (*Rule, error) {
	form := strings.ReplaceAll(header, "\\\n", "")
	form = strings.ToLower(strings.TrimSpace(form))

	var (
		nplurals = -1
		expr     string
		seenExpr bool
	)

	for part := range strings.SplitSeq(form, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w %q: malformed segment %q", ErrInvalidRule, header, part)
		}

		switch strings.TrimSpace(key) {
		case "nplurals":
			v, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || v < 1 {
				return nil, fmt.Errorf("%w %q: %w", ErrInvalidRule, header, errBadNPlurals)
			}

			nplurals = v
		case "plural":
			expr = strings.TrimSpace(value)
			seenExpr = true
		default:
			return nil, fmt.Errorf("%w %q: unknown key %q", ErrInvalidRule, header, strings.TrimSpace(key))
		}
	}

	if nplurals < 0 {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidRule, header, errMissingNPlurals)
	}

	if !seenExpr || expr == "" {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidRule, header, errMissingPlural)
	}

	root, err := parseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidRule, header, err)
	}

	return &Rule{nplurals: nplurals, expr: expr, root: root}, nil
}

// NPlurals returns the number of plural forms declared by the rule.
func (r *Rule) NPlurals() int { return r.nplurals }

// Expr returns the plural expression as written in the header.
func (r *Rule) Expr() string { return r.expr }

// Index returns the variant index for the count n. The result is never negative.
func (r *Rule) Index(n int) int {
	return max(0, r.root.eval(n))
}

// String returns the rule in Plural-Forms header syntax.
func (r *Rule) String() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", r.nplurals, r.expr)
}
