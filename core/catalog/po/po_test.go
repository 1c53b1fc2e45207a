// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# French translations.
msgid ""
msgstr ""
"Language: fr\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

#. Greeting on the front page
#: main.go:12
msgid "Hello"
msgstr "Bonjour"

#, fuzzy, c-format
msgid "Goodbye %s"
msgstr "Au revoir %s"

msgctxt "menu"
msgid "Open"
msgstr "Ouvrir"

msgid "%d file"
msgid_plural "%d files"
msgstr[0] "%d fichier"
msgstr[1] "%d fichiers"

msgid ""
"multi "
"line"
msgstr "sur "
"plusieurs\tlignes"

#~ msgid "Old"
#~ msgstr "Vieux"
`

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := Parse("fr.po", strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "fr", f.HeaderValue("language"))
	assert.Equal(t, "nplurals=2; plural=(n > 1);", f.HeaderValue("Plural-Forms"))
	assert.Empty(t, f.HeaderValue("X-Missing"))

	require.Len(t, f.Messages, 5)

	hello := f.Messages[0]
	assert.Equal(t, "Hello", hello.ID)
	assert.Equal(t, []string{"Bonjour"}, hello.Str)
	assert.Equal(t, []string{"#. Greeting on the front page"}, hello.Comments)
	assert.Equal(t, []string{"main.go:12"}, hello.References)
	assert.False(t, hello.HasFlag("fuzzy"))

	bye := f.Messages[1]
	assert.True(t, bye.HasFlag("fuzzy"))
	assert.True(t, bye.HasFlag("c-format"))

	open := f.Messages[2]
	assert.Equal(t, "menu", open.Context)
	assert.Equal(t, "Open", open.ID)

	files := f.Messages[3]
	assert.Equal(t, "%d files", files.IDPlural)
	assert.Equal(t, []string{"%d fichier", "%d fichiers"}, files.Str)

	multi := f.Messages[4]
	assert.Equal(t, "multi line", multi.ID)
	assert.Equal(t, []string{"sur plusieurs\tlignes"}, multi.Str)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"unknown keyword", "msgfoo \"x\"\n"},
		{"unterminated string", "msgid \"x\nmsgstr \"\"\n"},
		{"bad escape", "msgid \"\\q\"\nmsgstr \"\"\n"},
		{"orphan continuation", "\"dangling\"\n"},
		{"duplicate msgstr", "msgid \"a\"\nmsgstr \"b\"\nmsgstr \"c\"\n"},
		{"bad index", "msgid \"a\"\nmsgid_plural \"b\"\nmsgstr[x] \"c\"\n"},
		{"msgstr without msgid", "msgctxt \"c\"\nmsgstr \"x\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("bad.po", strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	f, err := Parse("fr.po", strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f))

	again, err := Parse("again.po", &buf)
	require.NoError(t, err)

	assert.Equal(t, f.Header, again.Header)
	require.Len(t, again.Messages, len(f.Messages))

	for i, m := range f.Messages {
		got := again.Messages[i]
		assert.Equal(t, m.Context, got.Context)
		assert.Equal(t, m.ID, got.ID)
		assert.Equal(t, m.IDPlural, got.IDPlural)
		assert.Equal(t, m.Str, got.Str)
		assert.Equal(t, m.Flags, got.Flags)
	}
}

func TestWrite_TemplatePlural(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Write(&buf, &File{Messages: []*Message{{ID: "one", IDPlural: "many"}}})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "msgstr[0] \"\"\nmsgstr[1] \"\"\n")
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"a \"b\" \\ c\n"`, Quote("a \"b\" \\ c\n"))
}
