// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile reads golden files for checker tests.
//
// A golden file is a sequence of unit descriptions separated by lines
// consisting of "---", which is also the YAML document separator. Each
// description is checked on its own, in a fresh context.
//
// A line may end with "###" followed by one or more Go string literals.
// Each literal is a regular expression, and the checker must report
// exactly one error on that line for each of them, in any order. YAML
// reads the marker as a comment, so annotated text stays loadable:
//
//	methods:
//	  - name: f
//	    body: |
//	      int x = "no"; ### "Cannot convert"
//	---
//	classes:
//	  - name: Base ### "does not implement" "some prerequisites"
//
// Chunk sources are padded with blank lines so that positions in the
// loaded unit are positions in the golden file.
package chunkedfile // import "go.rcsema.net/internal/chunkedfile"

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

const debug = false

const marker = "###"

// A Chunk is one unit description of a golden file together with the
// errors it is expected to produce.
type Chunk struct {
	Source string // padded text of the chunk
	Line   int    // line of the golden file on which the chunk starts

	filename string
	report   Reporter
	expect   map[int][]*regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read splits a golden file into chunks. Malformed expectations are
// reported to report and otherwise ignored.
//
// Messages that carry a "file:line" position begin with a newline so
// that the position added by (*testing.T).Errorf stays on a line of
// its own.
func Read(filename string, report Reporter) []Chunk {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return nil
	}
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return split(filename, string(data), report, eol)
}

func split(filename, text string, report Reporter, eol string) []Chunk {
	var chunks []Chunk
	line := 1
	for _, part := range strings.Split(text, eol+"---"+eol) {
		c := Chunk{
			Source:   strings.Repeat("\n", line-1) + part,
			Line:     line,
			filename: filename,
			report:   report,
			expect:   make(map[int][]*regexp.Regexp),
		}
		for i, s := range strings.Split(part, "\n") {
			c.parseLine(line+i, s)
		}
		if debug {
			fmt.Printf("chunk at line %d: %d expectations\n", line, len(c.expect))
		}
		// the separator occupies one line
		line += strings.Count(part, "\n") + 2
		chunks = append(chunks, c)
	}
	return chunks
}

// parseLine records the expectations of one line of the chunk.
func (c *Chunk) parseLine(num int, text string) {
	i := strings.Index(text, marker)
	if i < 0 {
		return
	}
	rest := strings.TrimSpace(text[i+len(marker):])
	if rest == "" {
		c.report.Errorf("\n%s:%d: no pattern after %s", c.filename, num, marker)
		return
	}
	for rest != "" {
		lit, err := strconv.QuotedPrefix(rest)
		if err != nil {
			c.report.Errorf("\n%s:%d: not a quoted regexp: %s", c.filename, num, rest)
			return
		}
		rest = strings.TrimSpace(rest[len(lit):])
		pattern, _ := strconv.Unquote(lit)
		rx, err := regexp.Compile(pattern)
		if err != nil {
			c.report.Errorf("\n%s:%d: %v", c.filename, num, err)
			continue
		}
		c.expect[num] = append(c.expect[num], rx)
	}
}

// GotError consumes the expectation of line num that msg matches.
// An error on a line with no remaining expectation, or one that
// matches none of them, is reported.
func (c *Chunk) GotError(num int, msg string) {
	want := c.expect[num]
	if len(want) == 0 {
		c.report.Errorf("\n%s:%d: unexpected error: %v", c.filename, num, msg)
		return
	}
	for i, rx := range want {
		if rx.MatchString(msg) {
			c.consume(num, i)
			return
		}
	}
	c.report.Errorf("\n%s:%d: error %q does not match pattern %q", c.filename, num, msg, want[0])
	c.consume(num, 0)
}

func (c *Chunk) consume(num, i int) {
	want := append(c.expect[num][:i:i], c.expect[num][i+1:]...)
	if len(want) == 0 {
		delete(c.expect, num)
	} else {
		c.expect[num] = want
	}
}

// Done reports each expected error that did not occur.
func (c *Chunk) Done() {
	for num, want := range c.expect {
		for _, rx := range want {
			c.report.Errorf("\n%s:%d: expected error matching %q", c.filename, num, rx)
		}
	}
}
