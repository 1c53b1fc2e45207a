// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	c := New("", "")
	c.Add("", "Hello", &Entry{Variants: []string{"Bonjour"}})
	c.Add("", "Draft", &Entry{Variants: []string{"Brouillon"}, Fuzzy: true})
	c.Add("menu", "Open", &Entry{Variants: []string{"Ouvrir"}})
	c.Add("", "Empty", &Entry{Variants: []string{""}})
	c.Add("", "None", &Entry{})
	c.Add("", "%d pear", &Entry{Variants: []string{"%d poire", ""}})

	tests := []struct {
		name         string
		context      string
		singular     string
		includeFuzzy bool
		want         []string
		found        bool
	}{
		{"plain", "", "Hello", false, []string{"Bonjour"}, true},
		{"missing", "", "Missing", false, nil, false},
		{"fuzzy excluded", "", "Draft", false, nil, false},
		{"fuzzy included", "", "Draft", true, []string{"Brouillon"}, true},
		{"context", "menu", "Open", false, []string{"Ouvrir"}, true},
		{"wrong context", "", "Open", false, nil, false},
		{"unknown context", "toolbar", "Open", false, nil, false},
		{"empty variant", "", "Empty", false, nil, false},
		{"no variants", "", "None", false, nil, false},
		{"one empty plural form", "", "%d pear", false, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, ok := c.Lookup(tt.context, tt.singular, tt.includeFuzzy)
			assert.Equal(t, tt.found, ok)

			if tt.found {
				require.NotNil(t, e)
				assert.Equal(t, tt.want, e.Variants)
			}
		})
	}

	assert.Equal(t, 6, c.Len())
}

func TestAdd_Replaces(t *testing.T) {
	t.Parallel()

	c := New("", "")
	c.Add("", "a", &Entry{Variants: []string{"1"}})
	c.Add("", "a", &Entry{Variants: []string{"2"}})

	e, ok := c.Lookup("", "a", false)
	require.True(t, ok)
	assert.Equal(t, []string{"2"}, e.Variants)
	assert.Equal(t, 1, c.Len())
}

func TestTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, language.MustParse("pt-BR"), New("", "pt_BR").Tag())
	assert.Equal(t, language.Und, New("", "").Tag())
	assert.Equal(t, language.Und, New("", "not a tag!").Tag())
}

// assertFrench checks the entries shared by the French fixtures.
func assertFrench(t *testing.T, c *Catalog) {
	t.Helper()

	assert.Equal(t, "nplurals=2; plural=(n > 1);", c.PluralForms())

	e, ok := c.Lookup("", "Hello", false)
	require.True(t, ok)
	assert.Equal(t, []string{"Bonjour"}, e.Variants)

	e, ok = c.Lookup("menu", "Open", false)
	require.True(t, ok)
	assert.Equal(t, []string{"Ouvrir"}, e.Variants)

	e, ok = c.Lookup("", "%d apple", false)
	require.True(t, ok)
	assert.Equal(t, []string{"%d pomme", "%d pommes"}, e.Variants)
}

func TestLoad_PO(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join("testdata", "fr.po"))
	require.NoError(t, err)

	assertFrench(t, c)
	assert.Equal(t, "fr_FR", c.Language())
	assert.Equal(t, 6, c.Len())

	_, ok := c.Lookup("", "Draft", false)
	assert.False(t, ok)

	e, ok := c.Lookup("", "Draft", true)
	require.True(t, ok)
	assert.True(t, e.Fuzzy)
	assert.Contains(t, e.Comments, "#, fuzzy")

	_, ok = c.Lookup("", "Untranslated", true)
	assert.False(t, ok)

	_, ok = c.Lookup("", "%d pear", true)
	assert.False(t, ok)
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join("testdata", "fr.json"))
	require.NoError(t, err)

	assertFrench(t, c)
	assert.Equal(t, "fr", c.Language())

	_, ok := c.Lookup("", "Draft", false)
	assert.False(t, ok)

	e, ok := c.Lookup("", "Draft", true)
	require.True(t, ok)
	assert.True(t, e.Fuzzy)

	_, ok = c.Lookup("", "", true)
	assert.False(t, ok, "the header entry is not a message")
}

func TestLoad_JSONHeaderEntry(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join("testdata", "headerless.json"))
	require.NoError(t, err)

	assert.Equal(t, "de", c.Language())
	assert.Equal(t, "nplurals=2; plural=(n != 1);", c.PluralForms())
	assert.Equal(t, 1, c.Len())
}

// buildMO encodes pairs of (msgid, msgstr) as a little-endian .mo file.
// Plural forms are separated by NUL, contexts by EOT, as msgfmt does.
func buildMO(pairs [][2]string) []byte {
	const headerSize = 28

	n := len(pairs)
	origTable := headerSize
	transTable := origTable + n*8
	strStart := transTable + n*8

	var strs bytes.Buffer

	offsets := make([]uint32, 0, 4*n)

	for side := range 2 {
		for _, p := range pairs {
			offsets = append(offsets, uint32(len(p[side])), uint32(strStart+strs.Len()))
			strs.WriteString(p[side])
			strs.WriteByte(0)
		}
	}

	var buf bytes.Buffer

	for _, v := range []uint32{0x950412de, 0, uint32(n), uint32(origTable), uint32(transTable), 0, 0} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}

	for _, v := range offsets {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}

	buf.Write(strs.Bytes())

	return buf.Bytes()
}

func frenchMO() []byte {
	return buildMO([][2]string{
		{"", "Language: fr\nPlural-Forms: nplurals=2; plural=(n > 1);\n"},
		{"Hello", "Bonjour"},
		{"menu\x04Open", "Ouvrir"},
		{"%d apple\x00%d apples", "%d pomme\x00%d pommes"},
	})
}

func TestLoad_MO(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fr.mo")
	require.NoError(t, os.WriteFile(path, frenchMO(), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assertFrench(t, c)
	assert.Equal(t, "fr", c.Language())
}

func TestLoad_Compressed(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile(filepath.Join("testdata", "fr.po"))
	require.NoError(t, err)

	dir := t.TempDir()

	var gz bytes.Buffer

	zw := gzip.NewWriter(&gz)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)

	zst := enc.EncodeAll(frenchMO(), nil)
	require.NoError(t, enc.Close())

	files := map[string][]byte{
		"fr.po.gz":  gz.Bytes(),
		"fr.mo.zst": zst,
	}

	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		c, err := Load(path)
		require.NoError(t, err, name)

		assertFrench(t, c)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "nope.po"), os.ErrNotExist},
		{"broken po", filepath.Join("testdata", "broken.po"), ErrMalformed},
		{"unknown extension", write("fr.xliff", "<xliff/>"), ErrUnsupportedFormat},
		{"invalid json", write("bad.json", "{"), ErrMalformed},
		{"json array", write("array.json", "[]"), ErrMalformed},
		{"json translations not an object", write("list.json", `{"translations": []}`), ErrMalformed},
		{"short mo", write("short.mo", "abc"), ErrMalformed},
		{"bad mo magic", write("magic.mo", string(make([]byte, 64))), ErrMalformed},
		{"bad gzip", write("fr.po.gz", "not gzip"), ErrMalformed},
		{"bad zstd", write("fr.po.zst", "not zstd"), ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_EmptyCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.po")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.PluralForms())
}
