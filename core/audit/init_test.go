// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestRunLogger(t *testing.T) {
	var buf bytes.Buffer

	old := log.Logger
	log.Logger = zerolog.New(&buf)

	t.Cleanup(func() { log.Logger = old })

	l := RunLogger("abc")
	l.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"run_id":"abc"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}
