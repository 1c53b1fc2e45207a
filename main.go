// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n-inline replaces gettext translation calls in Go packages with the
translated literals, so that the built program needs no catalog at runtime.

Usage:

	i18n-inline [-config file] [-o dir | -w] [-C dir] [packages]

With -o the rewritten packages are written to dir, with -w the changed files
are overwritten. Without either, the run only reports what it would do.
Invalid translation calls are reported according to output.reportInvalidAs;
error-level reports make the command exit with status 1.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	config "codeberg.org/pixivfe/i18ninline/configs"
	"codeberg.org/pixivfe/i18ninline/core/audit"
	"codeberg.org/pixivfe/i18ninline/core/build"
	"codeberg.org/pixivfe/i18ninline/core/inline"
	"codeberg.org/pixivfe/i18ninline/core/stats"
)

var errInvalidCalls = errors.New("invalid translation calls")

// main is the entry point of the application.
func main() {
	audit.SetDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		stop()
		log.Fatal().Err(err).Msg("i18n-inline failed")
	}
}

type flags struct {
	config    string
	outDir    string
	inPlace   bool
	dir       string
	version   bool
	patterns  []string
	configSet bool
}

func parseFlags(args []string) (*flags, error) {
	var f flags

	fs := flag.NewFlagSet("i18n-inline", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "", "Path to a configuration file in YAML or TOML format.")
	fs.StringVar(&f.outDir, "o", "", "Write rewritten packages under `dir`.")
	fs.BoolVar(&f.inPlace, "w", false, "Overwrite changed files in place.")
	fs.StringVar(&f.dir, "C", "", "Load packages from `dir` instead of the working directory.")
	fs.BoolVar(&f.version, "version", false, "Print the version and exit.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "config" {
			f.configSet = true
		}
	})

	f.patterns = fs.Args()

	return &f, nil
}

// run loads the configuration, builds the engine and rewrites the packages.
func run(ctx context.Context, args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	if f.version {
		fmt.Println(config.Version())

		return nil
	}

	cfg := &config.InlineConfig{}
	if err := cfg.LoadConfig(config.ResolveConfigPath(f.config, f.configSet)); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags win over the file and the environment.
	if f.outDir != "" {
		cfg.Output.Dir, cfg.Output.InPlace = f.outDir, false
	}

	if f.inPlace {
		cfg.Output.Dir, cfg.Output.InPlace = "", true
	}

	if err := cfg.Finish(); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := audit.RunLogger(runID)

	opts, err := cfg.EngineOptions(&logger)
	if err != nil {
		return err
	}

	engine, err := inline.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize inline engine: %w", err)
	}

	st := stats.New(runID)

	buildOpts := cfg.BuildOptions(f.patterns, runID, st, &logger)
	buildOpts.Dir = f.dir

	report, err := build.Run(ctx, engine, buildOpts)
	if err != nil {
		return err
	}

	if cfg.Output.MetricsFile != "" {
		if err := st.WriteFile(cfg.Output.MetricsFile); err != nil {
			return err
		}
	}

	if report.HasErrors() {
		return fmt.Errorf("%w: %d", errInvalidCalls, len(report.Diagnostics))
	}

	return nil
}
