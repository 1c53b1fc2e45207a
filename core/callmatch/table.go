// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package callmatch recognizes translation calls in Go syntax trees.

A [Table] is built once from the configured function names. Names shared by
two gettext variants are collapsed into one overloaded function whose
meaning depends on the number of arguments:

	__("Hello")                  gettext
	__("%d file", "%d files")    ngettext, when gettext and ngettext share a name
	_c("menu", "Open")           pgettext
	_c("ctx", "one", "many")     npgettext, when pgettext and npgettext share a name

When no name is configured at all, __ and _c are used as above.
*/
package callmatch

import (
	"errors"
	"fmt"
	"go/token"
	"maps"
	"slices"
	"strings"
)

var ErrConfig = errors.New("invalid translation function configuration")

// Default names used when [Names] is empty.
const (
	DefaultGettext       = "__"
	DefaultPGettext      = "_c"
	DefaultPluralFactory = "_p"
)

// Names configures the translation function identifiers. Each may be a plain
// identifier ("__") or a package-qualified one ("i18n.T"). Empty names are
// not recognized.
type Names struct {
	Gettext   string
	NGettext  string
	PGettext  string
	NPGettext string
}

// IsZero reports whether no name is configured.
func (n Names) IsZero() bool {
	return n == Names{}
}

// Form is a single gettext variant.
type Form uint8

const (
	FormGettext Form = iota + 1
	FormNGettext
	FormPGettext
	FormNPGettext
)

func (f Form) String() string {
	switch f {
	case FormGettext:
		return "gettext"
	case FormNGettext:
		return "ngettext"
	case FormPGettext:
		return "pgettext"
	case FormNPGettext:
		return "npgettext"
	}

	return fmt.Sprintf("Form(%d)", uint8(f))
}

// arity is the number of string arguments the form takes.
func (f Form) arity() int {
	switch f {
	case FormGettext:
		return 1
	case FormNGettext, FormPGettext:
		return 2
	}

	return 3
}

// Shape is the argument layout of a recognized function name: one form, or
// two forms told apart by argument count.
type Shape uint8

const (
	ShapeGettext Shape = iota + 1
	ShapeNGettext
	ShapePGettext
	ShapeNPGettext
	// ShapeGettextN is gettext with 1 argument, ngettext with 2.
	ShapeGettextN
	// ShapePGettextN is pgettext with 2 arguments, npgettext with 3.
	ShapePGettextN
	// ShapeGettextP is gettext with 1 argument, pgettext with 2.
	ShapeGettextP
	// ShapeNGettextP is ngettext with 2 arguments, npgettext with 3.
	ShapeNGettextP
)

// forms lists the forms a shape accepts, in increasing arity.
func (s Shape) forms() []Form {
	switch s {
	case ShapeGettext:
		return []Form{FormGettext}
	case ShapeNGettext:
		return []Form{FormNGettext}
	case ShapePGettext:
		return []Form{FormPGettext}
	case ShapeNPGettext:
		return []Form{FormNPGettext}
	case ShapeGettextN:
		return []Form{FormGettext, FormNGettext}
	case ShapePGettextN:
		return []Form{FormPGettext, FormNPGettext}
	case ShapeGettextP:
		return []Form{FormGettext, FormPGettext}
	case ShapeNGettextP:
		return []Form{FormNGettext, FormNPGettext}
	}

	return nil
}

// formFor returns the form selected by argc.
func (s Shape) formFor(argc int) (Form, bool) {
	for _, f := range s.forms() {
		if f.arity() == argc {
			return f, true
		}
	}

	return 0, false
}

// expected describes the accepted argument counts, e.g. "1 or 2 non-empty
// string literals".
func (s Shape) expected() string {
	forms := s.forms()

	counts := make([]string, len(forms))
	for i, f := range forms {
		counts[i] = fmt.Sprint(f.arity())
	}

	noun := "literals"
	if len(forms) == 1 && forms[0].arity() == 1 {
		noun = "literal"
	}

	return strings.Join(counts, " or ") + " non-empty string " + noun
}

func (s Shape) String() string {
	forms := s.forms()
	if forms == nil {
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}

	names := make([]string, len(forms))
	for i, f := range forms {
		names[i] = f.String()
	}

	return strings.Join(names, "|")
}

// Table dispatches call names to shapes. It is immutable and safe for
// concurrent use.
type Table struct {
	shapes        map[string]Shape
	pluralFactory string
}

// NewTable builds the dispatch table. pluralFactory names the plural function
// factory; "" selects [DefaultPluralFactory].
//
// Names shared between gettext and ngettext, pgettext and npgettext, gettext
// and pgettext, or ngettext and npgettext are collapsed, in that order. Any
// name still shared afterwards is an error wrapping [ErrConfig].
func NewTable(names Names, pluralFactory string) (*Table, error) {
	if pluralFactory == "" {
		pluralFactory = DefaultPluralFactory
	}

	for _, name := range []string{names.Gettext, names.NGettext, names.PGettext, names.NPGettext, pluralFactory} {
		if name != "" && !validName(name) {
			return nil, fmt.Errorf("%w: %q is not a Go identifier or qualified identifier", ErrConfig, name)
		}
	}

	type slot struct {
		name  string
		shape Shape
	}

	var slots []slot

	if names.IsZero() {
		slots = []slot{{DefaultGettext, ShapeGettextN}, {DefaultPGettext, ShapePGettextN}}
	} else {
		g, n, p, np := names.Gettext, names.NGettext, names.PGettext, names.NPGettext

		if g != "" && g == n {
			slots = append(slots, slot{g, ShapeGettextN})
			g, n = "", ""
		}

		if p != "" && p == np {
			slots = append(slots, slot{p, ShapePGettextN})
			p, np = "", ""
		}

		if g != "" && g == p {
			slots = append(slots, slot{g, ShapeGettextP})
			g, p = "", ""
		}

		if n != "" && n == np {
			slots = append(slots, slot{n, ShapeNGettextP})
			n, np = "", ""
		}

		for _, s := range []slot{{g, ShapeGettext}, {n, ShapeNGettext}, {p, ShapePGettext}, {np, ShapeNPGettext}} {
			if s.name != "" {
				slots = append(slots, s)
			}
		}
	}

	t := &Table{shapes: make(map[string]Shape, len(slots)), pluralFactory: pluralFactory}

	for _, s := range slots {
		if prev, ok := t.shapes[s.name]; ok {
			return nil, fmt.Errorf("%w: %q cannot be used for both %s and %s", ErrConfig, s.name, prev, s.shape)
		}

		t.shapes[s.name] = s.shape
	}

	if shape, ok := t.shapes[pluralFactory]; ok {
		return nil, fmt.Errorf("%w: the plural factory %q is also used for %s", ErrConfig, pluralFactory, shape)
	}

	return t, nil
}

// Shape returns the shape registered for name.
func (t *Table) Shape(name string) (Shape, bool) {
	s, ok := t.shapes[name]

	return s, ok
}

// Names returns the registered translation function names, sorted.
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.shapes))
}

// PluralFactory returns the plural factory name.
func (t *Table) PluralFactory() string { return t.pluralFactory }

// validName accepts "ident" and "pkg.Ident".
func validName(name string) bool {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return false
	}

	for _, p := range parts {
		if !token.IsIdentifier(p) {
			return false
		}
	}

	return true
}
