// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit sets up logging before the configuration is known.
package audit

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides an ok log output format on startup if no config is set.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.DateTime,
	})
}

// RunLogger returns the global logger tagged with a build run id.
func RunLogger(runID string) zerolog.Logger {
	return log.With().Str("run_id", runID).Logger()
}

// Discard silences the global logger, for tests and -q.
func Discard() {
	log.Logger = zerolog.New(io.Discard)
}
