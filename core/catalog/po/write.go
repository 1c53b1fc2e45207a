// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write encodes f in PO syntax. Messages are written in order, each
// preceded by its comments, references and flags. Plural messages with no
// msgstr get two empty forms so the output is a valid template.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, `msgid ""`)
	fmt.Fprintln(bw, `msgstr ""`)

	for _, h := range f.Header {
		fmt.Fprintln(bw, Quote(h.Name+": "+h.Value+"\n"))
	}

	for _, m := range f.Messages {
		fmt.Fprintln(bw)

		for _, c := range m.Comments {
			fmt.Fprintln(bw, c)
		}

		if len(m.References) > 0 {
			fmt.Fprintln(bw, "#: "+strings.Join(m.References, " "))
		}

		if len(m.Flags) > 0 {
			fmt.Fprintln(bw, "#, "+strings.Join(m.Flags, ", "))
		}

		if m.Context != "" {
			fmt.Fprintln(bw, "msgctxt "+Quote(m.Context))
		}

		fmt.Fprintln(bw, "msgid "+Quote(m.ID))

		if m.IDPlural == "" {
			str := ""
			if len(m.Str) > 0 {
				str = m.Str[0]
			}

			fmt.Fprintln(bw, "msgstr "+Quote(str))

			continue
		}

		fmt.Fprintln(bw, "msgid_plural "+Quote(m.IDPlural))

		strs := m.Str
		if len(strs) == 0 {
			strs = []string{"", ""}
		}

		for i, s := range strs {
			fmt.Fprintf(bw, "msgstr[%d] %s\n", i, Quote(s))
		}
	}

	return bw.Flush()
}

var quoter = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Quote returns s as a double-quoted PO string.
func Quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
