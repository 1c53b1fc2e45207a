// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Text is an inlined translation. It renders HTML-escaped.
type Text string

var _ templ.Component = Text("")

func (t Text) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, templ.EscapeString(string(t)))

	return err
}

func (t Text) String() string { return string(t) }
