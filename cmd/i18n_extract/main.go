// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n_extract writes a POT template of every translation call that
i18n-inline would rewrite. It reads the function names from the same
configuration file, so both tools always agree on the call shapes.

	go run ./cmd/i18n_extract -o po/messages.pot ./...
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	config "codeberg.org/pixivfe/i18ninline/configs"
	"codeberg.org/pixivfe/i18ninline/core/audit"
	"codeberg.org/pixivfe/i18ninline/core/callmatch"
	"codeberg.org/pixivfe/i18ninline/core/catalog/po"
)

func main() {
	audit.SetDefaultLogger()

	configPath := flag.String("config", "", "Path to a configuration file in YAML or TOML format.")
	outPath := flag.String("o", "po/messages.pot", "output file")
	tests := flag.Bool("tests", false, "also scan _test.go files")
	flag.Parse()

	configSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configSet = true
		}
	})

	cfg := &config.InlineConfig{}
	if err := cfg.LoadConfig(config.ResolveConfigPath(*configPath, configSet)); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	table, err := callmatch.NewTable(callmatch.Names{
		Gettext:   cfg.Functions.Gettext,
		NGettext:  cfg.Functions.NGettext,
		PGettext:  cfg.Functions.PGettext,
		NPGettext: cfg.Functions.NPGettext,
	}, cfg.Functions.PluralFactory)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid function names")
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get working directory")
	}

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: *tests}, patterns...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load packages")
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Warn().Msg("Packages have errors, constant folding falls back to syntax")
	}

	x := newExtractor(table, findProjectRoot(wd))
	x.addPackages(pkgs)

	for _, w := range x.warnings {
		log.Warn().Msg(w)
	}

	file := &po.File{Header: header(detectVersion(), time.Now()), Messages: x.messages()}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to create output file")
	}
	defer out.Close()

	if err := po.Write(out, file); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to write output file")
	}

	log.Info().
		Str("path", *outPath).
		Int("messages", len(file.Messages)).
		Msg("Wrote POT template")
}

// header returns the POT header fields.
func header(version string, now time.Time) []po.Field {
	return []po.Field{
		{Name: "Project-Id-Version", Value: version},
		{Name: "POT-Creation-Date", Value: now.UTC().Format("2006-01-02 15:04+0000")},
		{Name: "MIME-Version", Value: "1.0"},
		{Name: "Content-Type", Value: "text/plain; charset=UTF-8"},
		{Name: "Content-Transfer-Encoding", Value: "8bit"},
		{Name: "Plural-Forms", Value: "nplurals=2; plural=(n != 1);"},
	}
}

// detectVersion resolves a human-friendly version string using git describe.
// Falls back to "dev" when git is unavailable or this is not a git checkout.
func detectVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}

// findProjectRoot returns the git toplevel directory, else the nearest
// parent holding go.mod, else wd. References are relative to it.
func findProjectRoot(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	if out, err := cmd.Output(); err == nil {
		if root := strings.TrimSpace(string(out)); root != "" {
			return filepath.Clean(root)
		}
	}

	for dir := filepath.Clean(wd); ; {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}

		dir = parent
	}
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: i18n_extract [-config file] [-o file.pot] [-tests] [packages]\n")
		flag.PrintDefaults()
	}
}
