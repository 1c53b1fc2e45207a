// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package callmatch

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
)

// Evaluator folds argument expressions to constant strings.
type Evaluator interface {
	ConstString(expr ast.Expr) (string, bool)
}

// variableChecker is implemented by evaluators that can tell a local
// variable apart from a function of the same name.
type variableChecker interface {
	isVariable(fun ast.Expr) bool
}

// TypesEvaluator uses type-checker results. It accepts anything the type
// checker folded to a string constant: literals, const identifiers and
// constant expressions such as "a" + "b".
type TypesEvaluator struct {
	Info *types.Info
}

func (e TypesEvaluator) ConstString(expr ast.Expr) (string, bool) {
	tv, ok := e.Info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// isVariable reports whether fun names a variable that is local to a
// function, for example a parameter called __, or a selector whose left
// side is such a variable.
func (e TypesEvaluator) isVariable(fun ast.Expr) bool {
	var id *ast.Ident

	switch f := ast.Unparen(fun).(type) {
	case *ast.Ident:
		id = f
	case *ast.SelectorExpr:
		id, _ = f.X.(*ast.Ident)
	}

	if id == nil {
		return false
	}

	v, ok := e.Info.Uses[id].(*types.Var)
	if !ok || v.Pkg() == nil {
		return false
	}

	return v.Parent() != v.Pkg().Scope()
}

// SyntaxEvaluator works on bare syntax, for files without type information.
// It folds string literals, parentheses and + concatenation.
type SyntaxEvaluator struct{}

func (SyntaxEvaluator) ConstString(expr ast.Expr) (string, bool) {
	v := foldSyntax(expr)
	if v == nil || v.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(v), true
}

func foldSyntax(expr ast.Expr) constant.Value {
	switch x := expr.(type) {
	case *ast.BasicLit:
		if x.Kind != token.STRING {
			return nil
		}

		v := constant.MakeFromLiteral(x.Value, x.Kind, 0)
		if v.Kind() == constant.Unknown {
			return nil
		}

		return v
	case *ast.ParenExpr:
		return foldSyntax(x.X)
	case *ast.BinaryExpr:
		if x.Op != token.ADD {
			return nil
		}

		l, r := foldSyntax(x.X), foldSyntax(x.Y)
		if l == nil || r == nil {
			return nil
		}

		return constant.BinaryOp(l, token.ADD, r)
	}

	return nil
}
