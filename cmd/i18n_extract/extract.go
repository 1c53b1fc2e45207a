// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"cmp"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"

	"golang.org/x/tools/go/packages"

	"codeberg.org/pixivfe/i18ninline/core/callmatch"
	"codeberg.org/pixivfe/i18ninline/core/catalog/po"
	"codeberg.org/pixivfe/i18ninline/core/resolve"
)

type ref struct {
	file string
	line int
}

// key identifies a template entry. Calls with and without a plural form
// share one entry, as msgfmt rejects a msgid defined twice.
type key struct {
	context string
	id      string
}

type entry struct {
	plural string
	refs   []ref
}

// extractor collects the translation requests of many files.
type extractor struct {
	table       *callmatch.Table
	projectRoot string
	entries     map[key]*entry
	warnings    []string
	seen        map[string]bool
}

func newExtractor(table *callmatch.Table, projectRoot string) *extractor {
	return &extractor{
		table:       table,
		projectRoot: projectRoot,
		entries:     map[key]*entry{},
		seen:        map[string]bool{},
	}
}

func (x *extractor) addPackages(pkgs []*packages.Package) {
	for _, p := range pkgs {
		info := p.TypesInfo
		if len(p.TypeErrors) > 0 {
			info = nil
		}

		for _, f := range p.Syntax {
			x.addFile(p.Fset, f, info)
		}
	}
}

// addFile records the calls of f. info may be nil. A file already seen,
// for example through a test variant of its package, is skipped.
func (x *extractor) addFile(fset *token.FileSet, f *ast.File, info *types.Info) {
	name := fset.File(f.Pos()).Name()
	if x.seen[name] {
		return
	}

	x.seen[name] = true

	var eval callmatch.Evaluator = callmatch.SyntaxEvaluator{}
	if info != nil {
		eval = callmatch.TypesEvaluator{Info: info}
	}

	ast.Inspect(f, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		m, err := x.table.Match(call, eval)
		if err != nil {
			x.warnings = append(x.warnings, fmt.Sprintf("%s: %v", fset.Position(call.Pos()), err))

			return true
		}

		if m.Kind != callmatch.KindTranslation {
			return true
		}

		p := fset.Position(call.Pos())

		file := p.Filename
		if rel, err := filepath.Rel(x.projectRoot, file); err == nil {
			file = rel
		}

		x.add(m.Request, ref{file: filepath.ToSlash(file), line: p.Line})

		return false
	})
}

// add records a call site of req. The first plural form seen for a msgid
// wins; a different one is reported as a warning.
func (x *extractor) add(req resolve.Request, at ref) {
	k := key{context: req.Context, id: req.Singular}

	e, ok := x.entries[k]
	if !ok {
		e = &entry{}
		x.entries[k] = e
	}

	switch {
	case req.Plural == "":
	case e.plural == "":
		e.plural = req.Plural
	case e.plural != req.Plural:
		x.warnings = append(x.warnings, fmt.Sprintf("%s:%d: %q has plural %q, keeping %q",
			at.file, at.line, req.Singular, req.Plural, e.plural))
	}

	e.refs = append(e.refs, at)
}

// messages returns one template message per context and msgid, sorted by
// both.
func (x *extractor) messages() []*po.Message {
	keys := make([]key, 0, len(x.entries))
	for k := range x.entries {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Or(cmp.Compare(a.context, b.context), cmp.Compare(a.id, b.id))
	})

	msgs := make([]*po.Message, 0, len(keys))

	for _, k := range keys {
		e := x.entries[k]

		rs := e.refs
		slices.SortFunc(rs, func(a, b ref) int {
			return cmp.Or(cmp.Compare(a.file, b.file), cmp.Compare(a.line, b.line))
		})
		rs = slices.Compact(rs)

		refs := make([]string, len(rs))
		for i, rf := range rs {
			refs[i] = fmt.Sprintf("%s:%d", rf.file, rf.line)
		}

		msgs = append(msgs, &po.Message{
			Context:    k.context,
			ID:         k.id,
			IDPlural:   e.plural,
			References: refs,
		})
	}

	return msgs
}
