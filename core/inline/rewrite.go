// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package inline

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"codeberg.org/pixivfe/i18ninline/core/callmatch"
)

var (
	ErrOutput = errors.New("rewritten file is not valid Go")

	errForeignFile = errors.New("file is not part of the file set")
)

// Diagnostic is a problem found at a call site.
type Diagnostic struct {
	Pos      token.Position
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// FileResult is the outcome of rewriting one file.
type FileResult struct {
	// Source is the rewritten, gofmt-formatted file. It is the input
	// unchanged when Changed is false.
	Source  []byte
	Changed bool

	// Rewritten counts replaced translation and plural factory calls.
	Rewritten int
	// Invalid counts recognized calls left untouched, whatever the
	// reporting severity.
	Invalid     int
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic has error severity.
func (r *FileResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

type replacement struct {
	start, end int
	text       string
}

// RewriteFile rewrites file, parsed from src with fset. info may be nil; with
// type information, constant identifiers are accepted as arguments and local
// variables named like a translation function are left alone.
//
// Invalid calls produce diagnostics, not errors. The returned error is set
// only when the output encoder fails or the result does not parse.
func (e *Engine) RewriteFile(fset *token.FileSet, file *ast.File, src []byte, info *types.Info) (*FileResult, error) {
	tf := fset.File(file.Pos())
	if tf == nil {
		return nil, errForeignFile
	}

	var eval callmatch.Evaluator = callmatch.SyntaxEvaluator{}
	if info != nil {
		eval = callmatch.TypesEvaluator{Info: info}
	}

	res := &FileResult{Source: src}

	var (
		repls      []replacement
		qualifiers = map[string]bool{}
		imported   = map[string]string{}
		encodeErr  error
	)

	ast.Inspect(file, func(n ast.Node) bool {
		if encodeErr != nil {
			return false
		}

		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		m, err := e.table.Match(call, eval)
		if err != nil {
			res.Invalid++
			e.diagnose(res, fset.Position(call.Pos()), err.Error())

			return true
		}

		var text string

		switch m.Kind {
		case callmatch.KindNone:
			return true
		case callmatch.KindPluralFactory:
			text = "(" + e.pluralFunc + ")"
		case callmatch.KindTranslation:
			text, err = e.serializer.Serialize(e.chain.Resolve(m.Request))
			if err != nil {
				encodeErr = fmt.Errorf("%s: %w", fset.Position(call.Pos()), err)

				return false
			}
		}

		if sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr); ok {
			if x, ok := sel.X.(*ast.Ident); ok {
				qualifiers[x.Name] = true

				if info != nil {
					if pn, ok := info.Uses[x].(*types.PkgName); ok {
						imported[pn.Imported().Path()] = x.Name
					}
				}
			}
		}

		repls = append(repls, replacement{
			start: tf.Offset(call.Pos()),
			end:   tf.Offset(call.End()),
			text:  text,
		})
		res.Rewritten++

		// Arguments are constants, so nothing inside needs rewriting.
		return false
	})

	if encodeErr != nil {
		return nil, encodeErr
	}

	if len(repls) == 0 {
		return res, nil
	}

	out, err := splice(src, repls, qualifiers, imported)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOutput, tf.Name(), err)
	}

	res.Source = out
	res.Changed = !bytes.Equal(out, src)

	return res, nil
}

func (e *Engine) diagnose(res *FileResult, pos token.Position, msg string) {
	if e.report == SeverityNone {
		return
	}

	res.Diagnostics = append(res.Diagnostics, Diagnostic{Pos: pos, Severity: e.report, Message: msg})
}

// splice applies repls to src, drops imports that only served rewritten
// qualified calls, and formats the result. imported maps import paths to
// the qualifier type information resolved them to.
func splice(src []byte, repls []replacement, qualifiers map[string]bool, imported map[string]string) ([]byte, error) {
	slices.SortFunc(repls, func(a, b replacement) int { return a.start - b.start })

	var buf bytes.Buffer

	last := 0

	for _, r := range repls {
		buf.Write(src[last:r.start])
		buf.WriteString(r.text)
		last = r.end
	}

	buf.Write(src[last:])

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "", buf.Bytes(), parser.ParseComments)
	if err != nil {
		return nil, err
	}

	if len(qualifiers) > 0 {
		removeUnusedImports(fset, f, qualifiers, imported)
	}

	var out bytes.Buffer
	if err := format.Node(&out, fset, f); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// removeUnusedImports deletes imports named by one of qualifiers that the
// file no longer refers to.
func removeUnusedImports(fset *token.FileSet, f *ast.File, qualifiers map[string]bool, imported map[string]string) {
	used := map[string]bool{}

	ast.Inspect(f, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if x, ok := sel.X.(*ast.Ident); ok {
				used[x.Name] = true
			}
		}

		return true
	})

	for _, spec := range slices.Clone(f.Imports) {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name, ok := imported[importPath]
		if !ok {
			name = importName(importPath)
		}

		explicit := ""

		if spec.Name != nil {
			name, explicit = spec.Name.Name, spec.Name.Name
		}

		if !qualifiers[name] || used[name] {
			continue
		}

		astutil.DeleteNamedImport(fset, f, explicit, importPath)
	}
}

// importName guesses the package name of an import path when there is no
// type information: the last element, skipping a /vN major version element
// and dropping a gopkg.in style .vN suffix.
func importName(importPath string) string {
	name := path.Base(importPath)
	if dir := path.Dir(importPath); isVersion(name) && dir != "." {
		name = path.Base(dir)
	}

	if i := strings.LastIndex(name, "."); i > 0 && isVersion(name[i+1:]) {
		name = name[:i]
	}

	return name
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	_, err := strconv.Atoi(s[1:])

	return err == nil
}
