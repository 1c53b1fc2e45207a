// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package plural

import (
	"strconv"
	"strings"
)

// GoFunc renders the rule as a Go function literal of type func(n int) int
// that returns the same indices as [Rule.Index]. Ternaries at the top of the
// expression become if statements, everything else is an expression.
func (r *Rule) GoFunc() string {
	var b strings.Builder

	b.WriteString("func(n int) int {\n")
	writeReturn(&b, r.root)
	b.WriteString("}")

	return b.String()
}

func writeReturn(b *strings.Builder, nd node) {
	switch x := nd.(type) {
	case condNode:
		b.WriteString("if " + goBool(x.cond) + " {\n")
		writeReturn(b, x.then)
		b.WriteString("}\n")
		writeReturn(b, x.els)
	case numNode:
		b.WriteString("return " + strconv.Itoa(max(0, int(x))) + "\n")
	case varNode:
		b.WriteString("return n\n")
	default:
		if nd.boolean() {
			b.WriteString("if " + goBool(nd) + " {\nreturn 1\n}\nreturn 0\n")

			return
		}

		// Arithmetic can go negative; Index clamps, so does the literal.
		b.WriteString("return max(0, " + goInt(nd) + ")\n")
	}
}

// goInt renders nd as a Go int expression.
func goInt(nd node) string {
	switch x := nd.(type) {
	case numNode:
		return strconv.Itoa(int(x))
	case varNode:
		return "n"
	case condNode:
		return "func() int { if " + goBool(x.cond) + " { return " + goInt(x.then) + " }; return " + goInt(x.els) + " }()"
	case unaryNode:
		if x.op == "-" {
			return "-" + paren(x.x, goInt(x.x))
		}
	case binaryNode:
		if !x.boolean() {
			return paren(x.x, goInt(x.x)) + " " + x.op + " " + paren(x.y, goInt(x.y))
		}
	}

	return "func() int { if " + goBool(nd) + " { return 1 }; return 0 }()"
}

// goBool renders nd as a Go bool expression, comparing integers against zero.
func goBool(nd node) string {
	switch x := nd.(type) {
	case unaryNode:
		if x.op == "!" {
			if x.x.boolean() {
				return "!(" + goBool(x.x) + ")"
			}

			return paren(x.x, goInt(x.x)) + " == 0"
		}
	case binaryNode:
		switch x.op {
		case "&&", "||":
			return paren(x.x, goBool(x.x)) + " " + x.op + " " + paren(x.y, goBool(x.y))
		case "<", "<=", ">", ">=", "==", "!=":
			return paren(x.x, goInt(x.x)) + " " + x.op + " " + paren(x.y, goInt(x.y))
		}
	}

	return paren(nd, goInt(nd)) + " != 0"
}

// paren wraps operands that are themselves operator expressions. Go and C
// disagree on the relative precedence of comparisons, so every nested
// operator is parenthesized.
func paren(nd node, s string) string {
	switch nd.(type) {
	case binaryNode, unaryNode:
		return "(" + s + ")"
	}

	return s
}
