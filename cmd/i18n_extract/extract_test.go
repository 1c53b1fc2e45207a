// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"go/parser"
	"go/token"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/i18ninline/core/callmatch"
	"codeberg.org/pixivfe/i18ninline/core/catalog/po"
)

const source = `package app

func f(n int) {
	_ = __("Hello")
	_ = __("%d file", "%d files")
	_ = _c("menu", "Open")
	_ = __("Hello")
	_ = __()
	_ = _p()
}
`

func extractSource(t *testing.T, table *callmatch.Table, files map[string]string) *extractor {
	t.Helper()

	x := newExtractor(table, "/src")
	fset := token.NewFileSet()

	for name, src := range files {
		f, err := parser.ParseFile(fset, name, src, 0)
		require.NoError(t, err)

		x.addFile(fset, f, nil)
	}

	return x
}

func TestExtract(t *testing.T) {
	t.Parallel()

	table, err := callmatch.NewTable(callmatch.Names{}, "")
	require.NoError(t, err)

	x := extractSource(t, table, map[string]string{"/src/app/a.go": source})

	msgs := x.messages()
	require.Len(t, msgs, 3)

	assert.Equal(t, po.Message{ID: "%d file", IDPlural: "%d files", References: []string{"app/a.go:5"}}, *msgs[0])
	assert.Equal(t, po.Message{ID: "Hello", References: []string{"app/a.go:4", "app/a.go:7"}}, *msgs[1])
	assert.Equal(t, po.Message{Context: "menu", ID: "Open", References: []string{"app/a.go:6"}}, *msgs[2])

	require.Len(t, x.warnings, 1)
	assert.Contains(t, x.warnings[0], "/src/app/a.go:8:6")
}

func TestExtract_ConfiguredNames(t *testing.T) {
	t.Parallel()

	table, err := callmatch.NewTable(callmatch.Names{Gettext: "i18n.T", NGettext: "i18n.N"}, "")
	require.NoError(t, err)

	x := extractSource(t, table, map[string]string{
		"/src/a.go": "package a\n\nvar x = i18n.T(\"Hi\")\nvar y = i18n.N(\"a\", \"b\")\nvar z = __(\"ignored\")\n",
	})

	msgs := x.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hi", msgs[0].ID)
	assert.Equal(t, "b", msgs[1].IDPlural)
}

func TestExtract_MergesPluralForms(t *testing.T) {
	t.Parallel()

	table, err := callmatch.NewTable(callmatch.Names{}, "")
	require.NoError(t, err)

	x := extractSource(t, table, map[string]string{
		"/src/a.go": "package a\n\nvar (\n\tx = __(\"File\")\n\ty = __(\"File\", \"Files\")\n\tz = __(\"File\", \"Folders\")\n\tw = _c(\"menu\", \"File\")\n)\n",
	})

	msgs := x.messages()
	require.Len(t, msgs, 2)

	assert.Equal(t, po.Message{ID: "File", IDPlural: "Files", References: []string{"a.go:4", "a.go:5", "a.go:6"}}, *msgs[0])
	assert.Equal(t, po.Message{Context: "menu", ID: "File", References: []string{"a.go:7"}}, *msgs[1])

	require.Len(t, x.warnings, 1)
	assert.Contains(t, x.warnings[0], `a.go:6: "File" has plural "Folders", keeping "Files"`)
}

func TestExtract_SkipsSeenFiles(t *testing.T) {
	t.Parallel()

	table, err := callmatch.NewTable(callmatch.Names{}, "")
	require.NoError(t, err)

	x := newExtractor(table, "/src")
	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "/src/a.go", "package a\n\nvar x = __(\"Hi\")\n", 0)
	require.NoError(t, err)

	x.addFile(fset, f, nil)
	x.addFile(fset, f, nil)

	require.Len(t, x.messages(), 1)
	assert.Equal(t, []string{"a.go:3"}, x.messages()[0].References)
}

func TestWriteTemplate(t *testing.T) {
	t.Parallel()

	table, err := callmatch.NewTable(callmatch.Names{}, "")
	require.NoError(t, err)

	x := extractSource(t, table, map[string]string{"/src/app/a.go": source})

	var buf bytes.Buffer

	now := time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC)
	require.NoError(t, po.Write(&buf, &po.File{Header: header("v1", now), Messages: x.messages()}))

	assert.Contains(t, buf.String(), "\"POT-Creation-Date: 2025-03-04 05:06+0000\\n\"")
	assert.Contains(t, buf.String(), "#: app/a.go:5\nmsgid \"%d file\"\nmsgid_plural \"%d files\"\nmsgstr[0] \"\"\nmsgstr[1] \"\"\n")

	parsed, err := po.Parse("messages.pot", &buf)
	require.NoError(t, err)
	assert.Len(t, parsed.Messages, 3)
	assert.Equal(t, "v1", parsed.HeaderValue("Project-Id-Version"))
}
