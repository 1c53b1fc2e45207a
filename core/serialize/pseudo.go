// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package serialize

import (
	"strings"
	"unicode/utf8"
)

var accents = map[rune]rune{
	'a': 'á', 'b': 'ƀ', 'c': 'ç', 'd': 'ð', 'e': 'é', 'f': 'ƒ', 'g': 'ĝ', 'h': 'ĥ',
	'i': 'í', 'j': 'ĵ', 'k': 'ķ', 'l': 'ļ', 'm': 'ɱ', 'n': 'ñ', 'o': 'ó', 'p': 'þ',
	'q': 'ǫ', 'r': 'ŕ', 's': 'š', 't': 'ţ', 'u': 'ú', 'v': 'ṽ', 'w': 'ŵ', 'x': 'ẋ',
	'y': 'ý', 'z': 'ž',
	'A': 'Å', 'B': 'Ɓ', 'C': 'Ç', 'D': 'Ð', 'E': 'É', 'F': 'Ƒ', 'G': 'Ĝ', 'H': 'Ĥ',
	'I': 'Î', 'J': 'Ĵ', 'K': 'Ķ', 'L': 'Ļ', 'M': 'Ṁ', 'N': 'Ñ', 'O': 'Ö', 'P': 'Þ',
	'Q': 'Ǫ', 'R': 'Ŕ', 'S': 'Š', 'T': 'Ţ', 'U': 'Û', 'V': 'Ṽ', 'W': 'Ŵ', 'X': 'Ẋ',
	'Y': 'Ý', 'Z': 'Ž',
}

// Pseudo pseudolocalizes text: letters get accents, the result is padded by
// about a third and wrapped in brackets. {placeholders} and printf verbs
// are copied unchanged.
func Pseudo(text string) string {
	var b strings.Builder

	b.WriteString("[")

	letters := 0

	for i := 0; i < len(text); {
		if n := protectedLen(text[i:]); n > 0 {
			b.WriteString(text[i : i+n])
			i += n

			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if a, ok := accents[r]; ok {
			b.WriteRune(a)

			letters++
		} else {
			b.WriteRune(r)
		}

		i += size
	}

	b.WriteString(strings.Repeat("~", (letters+2)/3))
	b.WriteString("]")

	return b.String()
}

// protectedLen returns the length of a {placeholder} or printf verb at the
// start of s, or 0.
func protectedLen(s string) int {
	switch s[0] {
	case '{':
		if end := strings.IndexByte(s, '}'); end > 0 {
			return end + 1
		}
	case '%':
		if len(s) > 1 && s[1] == '%' {
			return 2
		}

		// Flags, width, precision and argument index, then the verb letter.
		for i := 1; i < len(s); i++ {
			c := s[i]

			switch {
			case strings.IndexByte("+-# 0123456789.*[]", c) >= 0:
				continue
			case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
				return i + 1
			}

			return 0
		}
	}

	return 0
}
