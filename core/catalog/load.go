// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/leonelquinteros/gotext"
	"github.com/tidwall/gjson"

	"codeberg.org/pixivfe/i18ninline/core/catalog/po"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrMalformed         = errors.New("malformed catalog")
)

// moMagic is the first word of a .mo file, in either byte order.
const moMagic = 0x950412de

// Load reads the catalog at path. The format is chosen by extension:
// .po and .pot, .mo, or .json in the gettext-parser layout. A trailing
// .gz or .zst is decompressed first, so "fr.po.zst" is a PO file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	name := path

	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		data, err = gunzip(data)
		name = strings.TrimSuffix(name, filepath.Ext(name))
	case ".zst":
		data, err = unzstd(data)
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrMalformed, path, err)
	}

	return Parse(filepath.Ext(name), path, data)
}

// Parse decodes data in the format named by ext (".po", ".pot", ".mo" or
// ".json"). name is used in error messages.
func Parse(ext, name string, data []byte) (*Catalog, error) {
	switch strings.ToLower(ext) {
	case ".po", ".pot":
		return parsePO(name, data)
	case ".mo":
		return parseMO(name, data)
	case ".json":
		return parseJSON(name, data)
	}

	return nil, fmt.Errorf("%w %q: %s", ErrUnsupportedFormat, ext, name)
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}

func unzstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return dec.DecodeAll(data, nil)
}

func parsePO(name string, data []byte) (*Catalog, error) {
	f, err := po.Parse(name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	c := New(f.HeaderValue("Plural-Forms"), f.HeaderValue("Language"))

	for _, m := range f.Messages {
		comments := slices.Clone(m.Comments)
		if len(m.Flags) > 0 {
			comments = append(comments, "#, "+strings.Join(m.Flags, ", "))
		}

		c.Add(m.Context, m.ID, &Entry{
			Variants: m.Str,
			Fuzzy:    m.HasFlag("fuzzy"),
			Comments: comments,
		})
	}

	return c, nil
}

func parseMO(name string, data []byte) (*Catalog, error) {
	// gotext ignores malformed input, so check the header ourselves.
	if len(data) < 28 {
		return nil, fmt.Errorf("%w %s: file too short", ErrMalformed, name)
	}

	if binary.LittleEndian.Uint32(data) != moMagic && binary.BigEndian.Uint32(data) != moMagic {
		return nil, fmt.Errorf("%w %s: bad magic number", ErrMalformed, name)
	}

	mo := gotext.NewMo()
	mo.Parse(data)

	dom := mo.GetDomain()
	c := New(dom.Headers.Get("Plural-Forms"), dom.Headers.Get("Language"))

	for id, tr := range dom.GetTranslations() {
		if id == "" {
			continue
		}

		c.Add("", id, &Entry{Variants: moVariants(tr)})
	}

	for ctx, byID := range dom.GetCtxTranslations() {
		for id, tr := range byID {
			c.Add(ctx, id, &Entry{Variants: moVariants(tr)})
		}
	}

	return c, nil
}

// moVariants flattens gotext's index map into a slice. Gaps become empty
// strings, which makes the entry unusable.
func moVariants(tr *gotext.Translation) []string {
	if len(tr.Trs) == 0 {
		return nil
	}

	n := 0
	for i := range tr.Trs {
		n = max(n, i+1)
	}

	variants := make([]string, n)
	for i, s := range tr.Trs {
		if i >= 0 {
			variants[i] = s
		}
	}

	return variants
}

// parseJSON reads the layout written by gettext-parser style tools:
//
//	{"headers": {...}, "translations": {"<ctx>": {"<msgid>": {"msgstr": [...], "comments": {"flag": "fuzzy"}}}}}
func parseJSON(name string, data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w %s: invalid JSON", ErrMalformed, name)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w %s: top level value is not an object", ErrMalformed, name)
	}

	translations := root.Get("translations")
	if translations.Exists() && !translations.IsObject() {
		return nil, fmt.Errorf("%w %s: translations is not an object", ErrMalformed, name)
	}

	headers := map[string]string{}

	root.Get("headers").ForEach(func(k, v gjson.Result) bool {
		headers[strings.ToLower(k.String())] = v.String()

		return true
	})

	c := New("", "")

	var (
		rawHeader string
		err       error
	)

	translations.ForEach(func(ctx, byID gjson.Result) bool {
		if !byID.IsObject() {
			err = fmt.Errorf("%w %s: context %q is not an object", ErrMalformed, name, ctx.String())

			return false
		}

		byID.ForEach(func(id, msg gjson.Result) bool {
			if ctx.String() == "" && id.String() == "" {
				rawHeader = msg.Get("msgstr.0").String()

				return true
			}

			var variants []string

			msg.Get("msgstr").ForEach(func(_, s gjson.Result) bool {
				variants = append(variants, s.String())

				return true
			})

			var comments []string

			msg.Get("comments").ForEach(func(kind, text gjson.Result) bool {
				comments = append(comments, kind.String()+": "+text.String())

				return true
			})

			c.Add(ctx.String(), id.String(), &Entry{
				Variants: variants,
				Fuzzy:    strings.Contains(msg.Get("comments.flag").String(), "fuzzy"),
				Comments: comments,
			})

			return true
		})

		return err == nil
	})

	if err != nil {
		return nil, err
	}

	// Without a headers object, fall back to the header entry.
	if len(headers) == 0 {
		for line := range strings.SplitSeq(rawHeader, "\n") {
			if k, v, ok := strings.Cut(line, ":"); ok {
				headers[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
			}
		}
	}

	c.pluralForms = strings.TrimSpace(headers["plural-forms"])
	c.language = strings.TrimSpace(headers["language"])

	return c, nil
}
