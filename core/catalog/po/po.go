// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package po reads and writes gettext PO and POT files.

Unlike general purpose gettext runtimes, the reader keeps every comment of a
message, including the "#," flag line, so callers can tell fuzzy translations
apart from reviewed ones. Obsolete "#~" entries and "#|" previous-msgid
comments are skipped.
*/
package po

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrSyntax = errors.New("po: syntax error")

	errUnquote        = errors.New("malformed quoted string")
	errOrphanString   = errors.New("string continuation outside of a directive")
	errUnknownKeyword = errors.New("unknown keyword")
	errBadIndex       = errors.New("malformed msgstr index")
	errDuplicate      = errors.New("duplicate directive")
	errNoMsgid        = errors.New("msgstr without msgid")
)

// Message is a single PO entry.
type Message struct {
	Context  string
	ID       string
	IDPlural string

	// Str holds msgstr, or msgstr[0..n] for plural messages.
	Str []string

	// Flags holds the comma separated values of "#," lines, trimmed.
	Flags []string

	// Comments holds translator ("# ") and extracted ("#.") comments verbatim,
	// including their marker.
	Comments []string

	// References holds the locations listed on "#:" lines.
	References []string

	// Line is the 1-based line of the msgid directive.
	Line int
}

// HasFlag reports whether the message carries the given flag, e.g. "fuzzy".
func (m *Message) HasFlag(flag string) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}

	return false
}

// IsHeader reports whether m is the header entry (empty msgid, no context).
func (m *Message) IsHeader() bool {
	return m.ID == "" && m.Context == ""
}

// Field is one "Name: value" line of the header entry.
type Field struct {
	Name  string
	Value string
}

// File is a decoded PO file. The header entry is not part of Messages.
type File struct {
	Header   []Field
	Messages []*Message
}

// HeaderValue returns the value of the named header field, matched
// case-insensitively.
func (f *File) HeaderValue(name string) string {
	for _, h := range f.Header {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}

	return ""
}

// directive being filled by continuation lines.
type target int

const (
	targetNone target = iota
	targetCtxt
	targetID
	targetIDPlural
	targetStr
)

type decoder struct {
	name string
	line int

	file *File
	cur  *Message

	// seen tracks which keywords of cur were already read.
	seen     map[string]bool
	target   target
	strIndex int
}

// Parse decodes a PO or POT file. name is only used in error messages.
func Parse(name string, r io.Reader) (*File, error) {
	d := &decoder{
		name: name,
		file: &File{},
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		d.line++

		line := strings.TrimSpace(sc.Text())
		if d.line == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		if err := d.handleLine(line); err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %w", ErrSyntax, d.name, d.line, err)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	if err := d.flush(); err != nil {
		return nil, fmt.Errorf("%w: %s:%d: %w", ErrSyntax, d.name, d.line, err)
	}

	return d.file, nil
}

func (d *decoder) handleLine(line string) error {
	switch {
	case line == "":
		// Entries end at the next comment or msgctxt/msgid, not at blank lines.
		return nil
	case strings.HasPrefix(line, "#~"), strings.HasPrefix(line, "#|"):
		return nil
	case strings.HasPrefix(line, "#"):
		// A comment after any directive starts a new entry.
		if d.target != targetNone {
			if err := d.flush(); err != nil {
				return err
			}
		}

		d.addComment(line)

		return nil
	case strings.HasPrefix(line, `"`):
		return d.continueString(line)
	}

	keyword, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	value, err := unquote(rest)
	if err != nil {
		return err
	}

	switch {
	case keyword == "msgctxt":
		// msgctxt always opens a new entry.
		if d.target != targetNone {
			if err := d.flush(); err != nil {
				return err
			}
		}

		if err := d.mark(keyword); err != nil {
			return err
		}

		d.entry().Context = value
		d.target = targetCtxt
	case keyword == "msgid":
		if d.target != targetNone && d.target != targetCtxt {
			if err := d.flush(); err != nil {
				return err
			}
		}

		if err := d.mark(keyword); err != nil {
			return err
		}

		d.entry().ID = value
		d.entry().Line = d.line
		d.target = targetID
	case keyword == "msgid_plural":
		if err := d.mark(keyword); err != nil {
			return err
		}

		d.entry().IDPlural = value
		d.target = targetIDPlural
	case keyword == "msgstr":
		if err := d.mark(keyword); err != nil {
			return err
		}

		d.entry().Str = append(d.entry().Str, value)
		d.target = targetStr
		d.strIndex = len(d.entry().Str) - 1
	case strings.HasPrefix(keyword, "msgstr["):
		idx, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(keyword, "msgstr["), "]"))
		if err != nil || idx < 0 || !strings.HasSuffix(keyword, "]") {
			return fmt.Errorf("%w %q", errBadIndex, keyword)
		}

		if err := d.mark(keyword); err != nil {
			return err
		}

		m := d.entry()
		for len(m.Str) <= idx {
			m.Str = append(m.Str, "")
		}

		m.Str[idx] = value
		d.target = targetStr
		d.strIndex = idx
	default:
		return fmt.Errorf("%w %q", errUnknownKeyword, keyword)
	}

	return nil
}

func (d *decoder) continueString(line string) error {
	value, err := unquote(line)
	if err != nil {
		return err
	}

	m := d.cur

	switch d.target {
	case targetCtxt:
		m.Context += value
	case targetID:
		m.ID += value
	case targetIDPlural:
		m.IDPlural += value
	case targetStr:
		m.Str[d.strIndex] += value
	default:
		return errOrphanString
	}

	return nil
}

func (d *decoder) addComment(line string) {
	m := d.entry()

	switch {
	case strings.HasPrefix(line, "#,"):
		for f := range strings.SplitSeq(line[2:], ",") {
			if f = strings.TrimSpace(f); f != "" {
				m.Flags = append(m.Flags, f)
			}
		}
	case strings.HasPrefix(line, "#:"):
		m.References = append(m.References, strings.Fields(line[2:])...)
	default:
		m.Comments = append(m.Comments, line)
	}
}

func (d *decoder) entry() *Message {
	if d.cur == nil {
		d.cur = &Message{}
		d.seen = map[string]bool{}
	}

	return d.cur
}

func (d *decoder) mark(keyword string) error {
	d.entry()

	if d.seen[keyword] {
		return fmt.Errorf("%w %q", errDuplicate, keyword)
	}

	d.seen[keyword] = true

	return nil
}

// flush finishes the current entry.
func (d *decoder) flush() error {
	m := d.cur
	d.cur, d.seen, d.target = nil, nil, targetNone

	if m == nil {
		return nil
	}

	if m.Line == 0 {
		if len(m.Str) > 0 || m.Context != "" {
			return errNoMsgid
		}

		// Trailing comments with no entry.
		return nil
	}

	if m.IsHeader() {
		if len(m.Str) > 0 {
			d.file.Header = parseHeader(m.Str[0])
		}

		return nil
	}

	d.file.Messages = append(d.file.Messages, m)

	return nil
}

func parseHeader(s string) []Field {
	var fields []Field

	for line := range strings.SplitSeq(s, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		fields = append(fields, Field{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}

	return fields
}

// unquote decodes a C-style double-quoted PO string.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("%w: %s", errUnquote, s)
	}

	var b strings.Builder

	body := s[1 : len(s)-1]

	for i := 0; i < len(body); i++ {
		c := body[i]

		if c == '"' {
			return "", fmt.Errorf("%w: unescaped quote in %s", errUnquote, s)
		}

		if c != '\\' {
			b.WriteByte(c)

			continue
		}

		i++
		if i == len(body) {
			return "", fmt.Errorf("%w: trailing backslash in %s", errUnquote, s)
		}

		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\', '"', '\'', '?':
			b.WriteByte(body[i])
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c in %s", errUnquote, body[i], s)
		}
	}

	return b.String(), nil
}
