// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package plural

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	errUnexpectedToken = errors.New("unexpected token")
	errUnexpectedEnd   = errors.New("unexpected end of expression")
	errUnknownIdent    = errors.New("unknown identifier, only n is allowed")
	errDivisor         = errors.New("divisor must be a non-zero integer literal")
)

// node is one element of a parsed plural expression.
//
// Comparison and logical operators yield 1 or 0, as in C.
type node interface {
	eval(n int) int
	// boolean reports whether the node is a comparison or logical operation.
	boolean() bool
}

type numNode int

func (v numNode) eval(int) int { return int(v) }

func (numNode) boolean() bool { return false }

type varNode struct{}

func (varNode) eval(n int) int { return n }

func (varNode) boolean() bool { return false }

type unaryNode struct {
	op string
	x  node
}

func (u unaryNode) eval(n int) int {
	x := u.x.eval(n)

	if u.op == "-" {
		return -x
	}

	return b2i(x == 0)
}

func (u unaryNode) boolean() bool { return u.op == "!" }

type binaryNode struct {
	op   string
	x, y node
}

func (b binaryNode) eval(n int) int {
	// && and || short-circuit.
	switch b.op {
	case "&&":
		return b2i(b.x.eval(n) != 0 && b.y.eval(n) != 0)
	case "||":
		return b2i(b.x.eval(n) != 0 || b.y.eval(n) != 0)
	}

	x, y := b.x.eval(n), b.y.eval(n)

	switch b.op {
	case "*":
		return x * y
	case "/":
		if y == 0 {
			return 0
		}

		return x / y
	case "%":
		if y == 0 {
			return 0
		}

		return x % y
	case "+":
		return x + y
	case "-":
		return x - y
	case "<":
		return b2i(x < y)
	case "<=":
		return b2i(x <= y)
	case ">":
		return b2i(x > y)
	case ">=":
		return b2i(x >= y)
	case "==":
		return b2i(x == y)
	case "!=":
		return b2i(x != y)
	}

	panic("plural: unknown operator " + b.op)
}

func (b binaryNode) boolean() bool {
	switch b.op {
	case "<", "<=", ">", ">=", "==", "!=", "&&", "||":
		return true
	}

	return false
}

type condNode struct {
	cond, then, els node
}

func (c condNode) eval(n int) int {
	if c.cond.eval(n) != 0 {
		return c.then.eval(n)
	}

	return c.els.eval(n)
}

func (condNode) boolean() bool { return false }

func b2i(b bool) int {
	if b {
		return 1
	}

	return 0
}

// token kinds produced by lex.
const (
	tokNum = iota + 1
	tokIdent
	tokOp
)

type token struct {
	kind int
	text string
	pos  int
}

// twoCharOps must be checked before single character operators.
var twoCharOps = []string{"&&", "||", "==", "!=", "<=", ">="}

func lex(src string) ([]token, error) {
	var toks []token

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}

			toks = append(toks, token{kind: tokNum, text: src[start:i], pos: start})
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
			start := i
			for i < len(src) && (src[i] >= 'a' && src[i] <= 'z' || src[i] >= 'A' && src[i] <= 'Z' ||
				src[i] >= '0' && src[i] <= '9' || src[i] == '_') {
				i++
			}

			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			op := ""

			for _, candidate := range twoCharOps {
				if i+len(candidate) <= len(src) && src[i:i+len(candidate)] == candidate {
					op = candidate

					break
				}
			}

			if op == "" {
				switch c {
				case '?', ':', '<', '>', '+', '-', '*', '/', '%', '!', '(', ')':
					op = string(c)
				default:
					return nil, fmt.Errorf("%w %q at offset %d", errUnexpectedToken, string(c), i)
				}
			}

			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}

	return toks, nil
}

// exprParser is a precedence-climbing parser for the C subset used by Plural-Forms.
type exprParser struct {
	toks []token
	pos  int
}

func parseExpr(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &exprParser{toks: toks}

	root, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.toks) {
		t := p.toks[p.pos]

		return nil, fmt.Errorf("%w %q at offset %d", errUnexpectedToken, t.text, t.pos)
	}

	return root, nil
}

func (p *exprParser) peekOp(ops ...string) (string, bool) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokOp {
		return "", false
	}

	for _, op := range ops {
		if p.toks[p.pos].text == op {
			return op, true
		}
	}

	return "", false
}

func (p *exprParser) expectOp(op string) error {
	if _, ok := p.peekOp(op); ok {
		p.pos++

		return nil
	}

	if p.pos >= len(p.toks) {
		return fmt.Errorf("%w, want %q", errUnexpectedEnd, op)
	}

	t := p.toks[p.pos]

	return fmt.Errorf("%w %q at offset %d, want %q", errUnexpectedToken, t.text, t.pos, op)
}

func (p *exprParser) ternary() (node, error) {
	cond, err := p.binary(0)
	if err != nil {
		return nil, err
	}

	if _, ok := p.peekOp("?"); !ok {
		return cond, nil
	}

	p.pos++

	then, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if err := p.expectOp(":"); err != nil {
		return nil, err
	}

	els, err := p.ternary()
	if err != nil {
		return nil, err
	}

	return condNode{cond: cond, then: then, els: els}, nil
}

// levels lists binary operators from the loosest to the tightest binding.
var levels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *exprParser) binary(level int) (node, error) {
	if level == len(levels) {
		return p.unary()
	}

	x, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.peekOp(levels[level]...)
		if !ok {
			return x, nil
		}

		p.pos++

		y, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}

		if op == "/" || op == "%" {
			if lit, ok := y.(numNode); !ok || lit == 0 {
				return nil, fmt.Errorf("%w in %q operation", errDivisor, op)
			}
		}

		x = binaryNode{op: op, x: x, y: y}
	}
}

func (p *exprParser) unary() (node, error) {
	if op, ok := p.peekOp("!", "-"); ok {
		p.pos++

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		return unaryNode{op: op, x: x}, nil
	}

	return p.primary()
}

func (p *exprParser) primary() (node, error) {
	if p.pos >= len(p.toks) {
		return nil, errUnexpectedEnd
	}

	t := p.toks[p.pos]
	p.pos++

	switch t.kind {
	case tokNum:
		v, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t.text, err)
		}

		return numNode(v), nil
	case tokIdent:
		if t.text != "n" {
			return nil, fmt.Errorf("%w: %q", errUnknownIdent, t.text)
		}

		return varNode{}, nil
	}

	if t.text != "(" {
		return nil, fmt.Errorf("%w %q at offset %d", errUnexpectedToken, t.text, t.pos)
	}

	x, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if err := p.expectOp(")"); err != nil {
		return nil, err
	}

	return x, nil
}
