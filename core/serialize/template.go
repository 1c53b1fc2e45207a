// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package serialize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"codeberg.org/pixivfe/i18ninline/core/resolve"
)

var ErrTemplate = errors.New("invalid output template")

// templateData is the value an output template is executed with.
type templateData struct {
	// Literal is the default encoding, e.g. "Bonjour" or []string{"a", "b"}.
	Literal string
	// Quoted holds each variant as a Go string literal.
	Quoted []string
	// Variants holds the raw variants.
	Variants []string
	// List is true for plural results.
	List bool
}

// TemplateEncoder returns an encoder that renders text/template source, for
// example `i18n.Text({{.Literal}})`. The output is used verbatim.
func TemplateEncoder(text string) (EncodeFunc, error) {
	tmpl, err := template.New("output").
		Option("missingkey=error").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	// Execute once so that field typos fail at construction.
	if err := tmpl.Execute(new(strings.Builder), dataFor(resolve.Text("probe"))); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	return func(r resolve.Result) (string, error) {
		var b strings.Builder

		if err := tmpl.Execute(&b, dataFor(r)); err != nil {
			return "", fmt.Errorf("executing output template: %w", err)
		}

		return b.String(), nil
	}, nil
}

func dataFor(r resolve.Result) templateData {
	quoted := make([]string, len(r.Variants))
	for i, v := range r.Variants {
		quoted[i] = strconv.Quote(v)
	}

	return templateData{
		Literal:  Literal(r),
		Quoted:   quoted,
		Variants: r.Variants,
		List:     r.List,
	}
}
