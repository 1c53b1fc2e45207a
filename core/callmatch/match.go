// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package callmatch

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"

	"codeberg.org/pixivfe/i18ninline/core/resolve"
)

var ErrInvalidUsage = errors.New("invalid translation call")

// UsageError reports a recognized call with unusable arguments.
type UsageError struct {
	Name    string
	Pos     token.Pos
	Message string
}

func (e *UsageError) Error() string { return e.Message }

func (e *UsageError) Unwrap() error { return ErrInvalidUsage }

// Kind tells what a call was recognized as.
type Kind uint8

const (
	// KindNone is any call that is not a translation call.
	KindNone Kind = iota
	KindTranslation
	KindPluralFactory
)

// Match is the outcome of classifying one call.
type Match struct {
	Kind  Kind
	Name  string
	Shape Shape
	// Form and Request are set for KindTranslation.
	Form    Form
	Request resolve.Request
}

// Match classifies call. Calls that do not use a configured name return a
// zero Match and no error. Recognized calls with the wrong arity, spread
// arguments, or arguments that are not non-empty constant strings return a
// *UsageError.
func (t *Table) Match(call *ast.CallExpr, eval Evaluator) (Match, error) {
	name, ok := CalleeName(call.Fun)
	if !ok {
		return Match{}, nil
	}

	shape, isTranslation := t.shapes[name]
	if !isTranslation && name != t.pluralFactory {
		return Match{}, nil
	}

	if v, ok := eval.(variableChecker); ok && v.isVariable(call.Fun) {
		return Match{}, nil
	}

	if !isTranslation {
		if len(call.Args) != 0 {
			return Match{}, usageError(call, name, "must receive 0 arguments")
		}

		return Match{Kind: KindPluralFactory, Name: name}, nil
	}

	invalid := func() error {
		return usageError(call, name, "must receive "+shape.expected()+" as argument")
	}

	form, ok := shape.formFor(len(call.Args))
	if !ok || call.Ellipsis.IsValid() {
		return Match{}, invalid()
	}

	args := make([]string, len(call.Args))

	for i, arg := range call.Args {
		s, ok := eval.ConstString(arg)
		if !ok || s == "" {
			return Match{}, invalid()
		}

		args[i] = s
	}

	var req resolve.Request

	switch form {
	case FormGettext:
		req = resolve.Request{Singular: args[0]}
	case FormNGettext:
		req = resolve.Request{Singular: args[0], Plural: args[1]}
	case FormPGettext:
		req = resolve.Request{Context: args[0], Singular: args[1]}
	case FormNPGettext:
		req = resolve.Request{Context: args[0], Singular: args[1], Plural: args[2]}
	}

	return Match{Kind: KindTranslation, Name: name, Shape: shape, Form: form, Request: req}, nil
}

func usageError(call *ast.CallExpr, name, what string) *UsageError {
	return &UsageError{
		Name:    name,
		Pos:     call.Pos(),
		Message: fmt.Sprintf("the %q function %s", name, what),
	}
}

// CalleeName returns "f" for f(...) and "pkg.F" for pkg.F(...). Other callee
// expressions, such as method values on calls or index expressions, yield
// false.
func CalleeName(fun ast.Expr) (string, bool) {
	switch f := ast.Unparen(fun).(type) {
	case *ast.Ident:
		return f.Name, true
	case *ast.SelectorExpr:
		if x, ok := f.X.(*ast.Ident); ok {
			return x.Name + "." + f.Sel.Name, true
		}
	}

	return "", false
}
