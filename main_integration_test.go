// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
They invoke the go command to load packages.
*/
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/i18ninline/core/audit"
)

const frenchPO = `msgid ""
msgstr ""
"Language: fr\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

msgid "Hello"
msgstr "Bonjour"

msgid "%d file"
msgid_plural "%d files"
msgstr[0] "%d fichier"
msgstr[1] "%d fichiers"
`

const appSource = `package main

import "fmt"

func __(s ...string) string { return s[0] }

func _p() func(int) int { return nil }

var pluralFor = _p()

func main() {
	fmt.Println(__("Hello"), __("%d file", "%d files"))
}
`

// project writes a module using __ and a matching config, and returns the
// config path and module directory.
func project(t *testing.T, source, extraConfig string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	app := filepath.Join(dir, "app")

	require.NoError(t, os.MkdirAll(app, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(app, "go.mod"), []byte("module example.com/app\n\ngo 1.22\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(app, "main.go"), []byte(source), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.po"), []byte(frenchPO), 0o644))

	cfg := "translation:\n  translation: " + filepath.Join(dir, "fr.po") + "\n" +
		"log:\n  logOutputs: [" + filepath.Join(dir, "build.log") + "]\n" +
		extraConfig

	cfgPath := filepath.Join(dir, "i18n-inline.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return cfgPath, app
}

func TestMain(m *testing.M) {
	audit.Discard()

	os.Exit(m.Run())
}

func TestRun_OutDir(t *testing.T) {
	cfgPath, app := project(t, appSource, "output:\n  metricsFile: "+filepath.Join(t.TempDir(), "inline.prom")+"\n")
	out := t.TempDir()

	require.NoError(t, run(context.Background(), []string{"-config", cfgPath, "-C", app, "-o", out, "./..."}))

	got, err := os.ReadFile(filepath.Join(out, "main.go"))
	require.NoError(t, err)

	src := string(got)
	assert.Contains(t, src, `fmt.Println("Bonjour", []string{"%d fichier", "%d fichiers"})`)
	assert.Contains(t, src, "var pluralFor = (func(n int) int {")
	assert.Contains(t, src, "if n > 1 {")
}

func TestRun_InPlace(t *testing.T) {
	cfgPath, app := project(t, appSource, "")

	require.NoError(t, run(context.Background(), []string{"-config", cfgPath, "-C", app, "-w"}))

	got, err := os.ReadFile(filepath.Join(app, "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(got), `"Bonjour"`)
}

func TestRun_InvalidCalls(t *testing.T) {
	source := strings.Replace(appSource, `__("Hello")`, `__()`, 1)

	cfgPath, app := project(t, source, "")

	err := run(context.Background(), []string{"-config", cfgPath, "-C", app})
	require.ErrorIs(t, err, errInvalidCalls)

	cfgPath, app = project(t, source, "output:\n  reportInvalidAs: warning\n")
	assert.NoError(t, run(context.Background(), []string{"-config", cfgPath, "-C", app}))
}

func TestRun_ConfigErrors(t *testing.T) {
	cfgPath, app := project(t, appSource, "functions:\n  gettext: t\n  npgettext: t\n")

	assert.Error(t, run(context.Background(), []string{"-config", cfgPath, "-C", app}))
	assert.Error(t, run(context.Background(), []string{"-nope"}))
}

func TestRun_Version(t *testing.T) {
	assert.NoError(t, run(context.Background(), []string{"-version"}))
}
