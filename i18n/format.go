// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"codeberg.org/pixivfe/i18ninline/i18n/lrucache"
)

// DefaultCacheSize is the number of parsed texts a Formatter keeps.
const DefaultCacheSize = 512

// Vars holds placeholder values by name.
type Vars map[string]any

// V builds Vars from alternating key, value pairs.
// Panics on programmer error.
func V(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n.V: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n.V: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}

// segment is a literal run, or a placeholder when name is set.
type segment struct {
	text string
	name string
}

type message []segment

// Formatter fills placeholders. It is safe for concurrent use.
type Formatter struct {
	cache  *lrucache.Cache[string, message]
	log    zerolog.Logger
	strict bool

	// warned deduplicates missing placeholder warnings, keyed by text.
	warned *lrucache.Cache[string, struct{}]
}

// Option configures a [Formatter].
type Option func(*Formatter)

// WithLogger logs missing placeholders to l.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Formatter) { f.log = l.With().Str("sys", "i18n").Logger() }
}

// WithStrict makes texts with missing placeholders visibly wrapped as "⟦...⟧".
func WithStrict(strict bool) Option {
	return func(f *Formatter) { f.strict = strict }
}

// NewFormatter returns a Formatter caching up to cacheSize parsed texts.
func NewFormatter(cacheSize int, opts ...Option) (*Formatter, error) {
	cache, err := lrucache.New[string, message](cacheSize)
	if err != nil {
		return nil, err
	}

	warned, err := lrucache.New[string, struct{}](cacheSize)
	if err != nil {
		return nil, err
	}

	f := &Formatter{cache: cache, warned: warned, log: zerolog.Nop()}
	for _, o := range opts {
		o(f)
	}

	return f, nil
}

// Format replaces each {name} in text with fmt.Sprint(vars[name]).
func (f *Formatter) Format(text string, vars Vars) string {
	if len(vars) == 0 && !strings.Contains(text, "{") {
		return text
	}

	msg := f.cache.GetOrAdd(text, func() message { return parse(text) })

	var (
		b       strings.Builder
		missing []string
	)

	for _, s := range msg {
		if s.name == "" {
			b.WriteString(s.text)

			continue
		}

		v, ok := vars[s.name]
		if !ok {
			missing = append(missing, s.name)
			b.WriteString(s.text)

			continue
		}

		fmt.Fprint(&b, v)
	}

	if len(missing) > 0 {
		if f.warned.AddIfAbsent(text, struct{}{}) {
			f.log.Warn().Str("text", text).Strs("missing", missing).Msg("Missing i18n placeholder values")
		}

		if f.strict {
			return "⟦" + b.String() + "⟧"
		}
	}

	return b.String()
}

// Plural picks the variant for n with pluralFn and formats it.
func (f *Formatter) Plural(variants []string, pluralFn func(int) int, n int, vars Vars) string {
	return f.Format(Pick(variants, pluralFn(n)), vars)
}

// parse splits text into literal runs and {name} placeholders. A brace pair
// whose content is not a plain name stays literal.
func parse(text string) message {
	var (
		msg message
		lit strings.Builder
	)

	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}

		end := strings.IndexByte(text[open:], '}')
		if end < 0 {
			break
		}

		end += open
		name := text[open+1 : end]

		if !isName(name) {
			lit.WriteString(text[:open+1])
			text = text[open+1:]

			continue
		}

		lit.WriteString(text[:open])

		if lit.Len() > 0 {
			msg = append(msg, segment{text: lit.String()})
			lit.Reset()
		}

		msg = append(msg, segment{text: text[open : end+1], name: name})
		text = text[end+1:]
	}

	lit.WriteString(text)

	if lit.Len() > 0 {
		msg = append(msg, segment{text: lit.String()})
	}

	return msg
}

func isName(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r != '_' && !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return false
		}
	}

	return true
}
