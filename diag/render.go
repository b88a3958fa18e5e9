// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/term"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"go.rcsema.net/syntax"
)

// ANSI escapes for the severities.
var colors = [...]string{
	Note:    "\x1b[1;36m",
	Warning: "\x1b[1;35m",
	Error:   "\x1b[1;31m",
}

const reset = "\x1b[0m"

// IsTerminal reports whether f is a terminal, in which case output
// to it may be coloured.
func IsTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// A Printer renders diagnostics as text:
//
//	file:line:col: severity: message
//	    source line
//	    ^~~~
//
// The source excerpt is printed only if the source is available.
type Printer struct {
	Color   bool
	Excerpt bool

	// Source returns the contents of the named file.
	// If nil, files are read from the file system.
	Source func(filename string) ([]byte, error)

	lines map[string][]string
}

// Print writes one diagnostic to w.
func (p *Printer) Print(w io.Writer, d Diagnostic) error {
	bw := bufio.NewWriter(w)
	sev := d.Severity.String()
	if p.Color {
		sev = colors[d.Severity] + sev + reset
	}
	fmt.Fprintf(bw, "%s: %s: %s\n", d.Range.Begin, sev, d.Msg)
	if p.Excerpt {
		if line, ok := p.line(d.Range.Begin.Filename(), int(d.Range.Begin.Line)); ok {
			fmt.Fprintf(bw, "    %s\n    %s\n", line, caret(line, d.Range))
		}
	}
	return bw.Flush()
}

// PrintAll writes every diagnostic of the list.
func (p *Printer) PrintAll(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if err := p.Print(w, d); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) line(filename string, n int) (string, bool) {
	if n <= 0 {
		return "", false
	}
	lines, ok := p.lines[filename]
	if !ok {
		read := p.Source
		if read == nil {
			read = os.ReadFile
		}
		data, err := read(filename)
		if err == nil {
			lines = strings.Split(string(bytes.TrimRight(data, "\n")), "\n")
		}
		if p.lines == nil {
			p.lines = make(map[string][]string)
		}
		p.lines[filename] = lines
	}
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

// caret returns the underline for r beneath line. Widths are
// measured in grapheme clusters as displayed, so that the marker
// lines up under wide and combining characters. Tabs are copied so
// that they expand the same way.
func caret(line string, r syntax.Range) string {
	runes := []rune(line)
	col := int(r.Begin.Col) - 1
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}
	var buf strings.Builder
	for _, c := range string(runes[:col]) {
		if c == '\t' {
			buf.WriteByte('\t')
		}
	}
	lead := strings.ReplaceAll(string(runes[:col]), "\t", "")
	buf.WriteString(strings.Repeat(" ", uniseg.StringWidth(lead)))
	buf.WriteByte('^')

	if r.End.Line == r.Begin.Line && int(r.End.Col)-1 > col {
		end := int(r.End.Col) - 1
		if end > len(runes) {
			end = len(runes)
		}
		if w := uniseg.StringWidth(string(runes[col:end])); w > 1 {
			buf.WriteString(strings.Repeat("~", w-1))
		}
	}
	return buf.String()
}

// JSON encodes diagnostics as a JSON object with one array field,
// "diagnostics", whose elements have file, line, column, severity and
// message fields.
func JSON(diags []Diagnostic) ([]byte, error) {
	list := make([]interface{}, len(diags))
	for i, d := range diags {
		list[i] = map[string]interface{}{
			"file":     d.Range.Begin.Filename(),
			"line":     int64(d.Range.Begin.Line),
			"column":   int64(d.Range.Begin.Col),
			"severity": d.Severity.String(),
			"message":  d.Msg,
		}
	}
	v, err := structpb.NewValue(map[string]interface{}{"diagnostics": list})
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
}
