// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package plural

import (
	"go/ast"
	"go/parser"
	"strconv"
	"testing"

	"github.com/leonelquinteros/gotext/plurals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formulaCase struct {
	name     string
	expr     string
	nplurals int
	want     map[int]int
	// oracle marks expressions gotext/plurals also understands.
	oracle bool
}

var languageFormulas = []formulaCase{
	{"asian", "0", 1, map[int]int{0: 0, 1: 0, 2: 0, 100: 0}, true},
	{"romanic", "(n != 1)", 2, map[int]int{0: 1, 1: 0, 2: 1, 100: 1}, true},
	{"brazilian", "(n > 1)", 2, map[int]int{0: 0, 1: 0, 2: 1, 100: 1}, true},
	{"latvian", "n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2", 3, map[int]int{1: 0, 21: 0, 11: 1, 0: 2}, true},
	{"irish", "n==1 ? 0 : n==2 ? 1 : 2", 3, map[int]int{1: 0, 2: 1, 3: 2, 4: 2, 300: 2}, true},
	{"romanian", "n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2", 3, map[int]int{1: 0, 0: 1, 10: 1, 20: 2, 30: 2}, true},
	{"lithuanian", "n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2", 3, map[int]int{0: 2, 1: 0, 2: 1, 3: 1, 11: 2, 12: 2, 15: 2, 22: 1}, true},
	{"russian", "(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)", 3, map[int]int{1: 0, 11: 2, 14: 2, 34: 1}, true},
	{"czech", "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2", 3, map[int]int{1: 0, 2: 1, 3: 1, 4: 1, 10: 2, 5: 2}, true},
	{"polish", "n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2", 3, map[int]int{1: 0, 0: 2, 5: 2, 8: 2, 12: 2, 15: 2, 22: 1, 103: 1}, true},
	{"slovenian", "n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3", 4, map[int]int{0: 3, 1: 0, 101: 0, 2: 1, 3: 2, 4: 2, 204: 2}, true},
	{"arithmetic", "n + 7 < 10 ? 1 : 0", 2, map[int]int{0: 1, 2: 1, 3: 0}, false},
	{"subtraction", "n - 5 > 0", 2, map[int]int{0: 0, 5: 0, 6: 1}, false},
	{"division", "n / 10 > 0 ? 1 : 0", 2, map[int]int{0: 0, 9: 0, 10: 1}, false},
	{"multiplication", "n * 3 >= 9", 2, map[int]int{0: 0, 2: 0, 3: 1, 4: 1}, false},
	{"negation", "!(n == 1)", 2, map[int]int{0: 1, 1: 0, 2: 1}, false},
	{"negative clamps", "n - 3", 2, map[int]int{0: 0, 1: 0, 4: 1}, false},
}

func header(nplurals int, expr string) string {
	return "nplurals=" + strconv.Itoa(nplurals) + "; plural=" + expr + ";"
}

func TestParse_LanguageFormulas(t *testing.T) {
	t.Parallel()

	for _, tc := range languageFormulas {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rule, err := Parse(header(tc.nplurals, tc.expr))
			require.NoError(t, err)
			assert.Equal(t, tc.nplurals, rule.NPlurals())

			for n, want := range tc.want {
				assert.Equal(t, want, rule.Index(n), "Index(%d) for %q", n, tc.expr)
			}
		})
	}
}

// TestParse_MatchesGotext compares every count in a range against the
// gotext evaluator for the formulas it understands.
func TestParse_MatchesGotext(t *testing.T) {
	t.Parallel()

	for _, tc := range languageFormulas {
		if !tc.oracle {
			continue
		}

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rule, err := Parse(header(tc.nplurals, tc.expr))
			require.NoError(t, err)

			oracle, err := plurals.Compile(tc.expr)
			require.NoError(t, err)

			for n := range 250 {
				assert.Equal(t, oracle.Eval(uint32(n)), rule.Index(n), "count %d", n)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	rule := Default()

	assert.Equal(t, 2, rule.NPlurals())
	assert.Equal(t, 1, rule.Index(0))
	assert.Equal(t, 0, rule.Index(1))
	assert.Equal(t, 1, rule.Index(2))
	assert.Equal(t, DefaultForms, rule.String())
}

func TestParse_HeaderVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{"no trailing semicolon", "nplurals=2; plural=(n != 1)"},
		{"upper case keys", "NPlurals=2; Plural=(n != 1);"},
		{"extra spaces", "  nplurals = 2 ;  plural = n != 1 ; "},
		{"escaped newline", "nplurals=2; \\\nplural=(n != 1);"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule, err := Parse(tt.header)
			require.NoError(t, err)
			assert.Equal(t, 2, rule.NPlurals())
			assert.Equal(t, 1, rule.Index(0))
			assert.Equal(t, 0, rule.Index(1))
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"missing nplurals", "plural=(n != 1);"},
		{"missing plural", "nplurals=2;"},
		{"zero nplurals", "nplurals=0; plural=0;"},
		{"non numeric nplurals", "nplurals=two; plural=0;"},
		{"unknown identifier", "nplurals=2; plural=(x != 1);"},
		{"unbalanced parenthesis", "nplurals=2; plural=(n != 1;"},
		{"dangling ternary", "nplurals=2; plural=n == 1 ? 0;"},
		{"trailing tokens", "nplurals=2; plural=n 1;"},
		{"division by zero", "nplurals=2; plural=n % 0;"},
		{"variable divisor", "nplurals=2; plural=n / n;"},
		{"unknown operator", "nplurals=2; plural=n & 1;"},
		{"unknown key", "nplurals=2; plural=0; foo=1;"},
		{"segment without value", "nplurals=2; plural;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.header)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestGoFunc_Parses(t *testing.T) {
	t.Parallel()

	for _, tc := range languageFormulas {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rule, err := Parse(header(tc.nplurals, tc.expr))
			require.NoError(t, err)

			expr, err := parser.ParseExpr(rule.GoFunc())
			require.NoError(t, err, rule.GoFunc())

			lit, ok := expr.(*ast.FuncLit)
			require.True(t, ok, "want a function literal, got %T", expr)
			assert.Len(t, lit.Type.Params.List, 1)
		})
	}
}

func TestGoFunc_Source(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "func(n int) int {\nif n != 1 {\nreturn 1\n}\nreturn 0\n}", Default().GoFunc())

	latvian, err := Parse("nplurals=3; plural=n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2;")
	require.NoError(t, err)

	want := "func(n int) int {\n" +
		"if ((n % 10) == 1) && ((n % 100) != 11) {\nreturn 0\n}\n" +
		"if n != 0 {\nreturn 1\n}\n" +
		"return 2\n}"
	assert.Equal(t, want, latvian.GoFunc())

	asian, err := Parse("nplurals=1; plural=0;")
	require.NoError(t, err)
	assert.Equal(t, "func(n int) int {\nreturn 0\n}", asian.GoFunc())

	mod, err := Parse("nplurals=3; plural=n % 3;")
	require.NoError(t, err)
	assert.Equal(t, "func(n int) int {\nreturn max(0, n % 3)\n}", mod.GoFunc())
}
