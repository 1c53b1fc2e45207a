// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package serialize renders resolved translations as Go source text.
package serialize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/i18ninline/core/resolve"
)

var ErrUnknownTransform = errors.New("unknown text transform")

// TransformFunc rewrites one translated string, for example for
// pseudolocalization.
type TransformFunc func(text string) string

// EncodeFunc turns a result into the Go source that replaces the call.
type EncodeFunc func(r resolve.Result) (string, error)

// Literal renders a scalar result as a Go string literal and a list result
// as a []string composite literal.
func Literal(r resolve.Result) string {
	if !r.List {
		if len(r.Variants) == 0 {
			return `""`
		}

		return strconv.Quote(r.Variants[0])
	}

	var b strings.Builder

	b.WriteString("[]string{")

	for i, v := range r.Variants {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(strconv.Quote(v))
	}

	b.WriteString("}")

	return b.String()
}

func encodeLiteral(r resolve.Result) (string, error) {
	return Literal(r), nil
}

// Serializer applies an optional transform to every variant, then encodes.
type Serializer struct {
	transform TransformFunc
	encode    EncodeFunc
}

// New returns a serializer. A nil transform leaves text unchanged; a nil
// encode selects [Literal].
func New(transform TransformFunc, encode EncodeFunc) *Serializer {
	if encode == nil {
		encode = encodeLiteral
	}

	return &Serializer{transform: transform, encode: encode}
}

// Serialize renders r. r itself is not modified.
func (s *Serializer) Serialize(r resolve.Result) (string, error) {
	if s.transform != nil {
		variants := make([]string, len(r.Variants))
		for i, v := range r.Variants {
			variants[i] = s.transform(v)
		}

		r = resolve.Result{Variants: variants, List: r.List}
	}

	return s.encode(r)
}

// Transform returns the built-in transform called name: "" for none,
// "upper" for locale-aware upper-casing, "pseudo" for pseudolocalization.
func Transform(name string, tag language.Tag) (TransformFunc, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "upper":
		return func(text string) string {
			// Casers are stateful; build one per call.
			return cases.Upper(tag).String(text)
		}, nil
	case "pseudo":
		return Pseudo, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownTransform, name)
}
