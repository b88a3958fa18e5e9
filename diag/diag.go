// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag defines the diagnostics produced by the checker:
// positioned messages of a given severity, a sink interface, an
// accumulating list, and renderings as text and JSON.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"go.rcsema.net/syntax"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	Note Severity = iota
	Warning
	Error
)

var severityNames = [...]string{
	Note:    "note",
	Warning: "warning",
	Error:   "error",
}

func (s Severity) String() string { return severityNames[s] }

// A Diagnostic is a positioned message.
type Diagnostic struct {
	Range    syntax.Range
	Severity Severity
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Range.Begin, d.Severity, d.Msg)
}

// A Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// A List is a Reporter that records diagnostics in order and counts
// them by severity.
type List struct {
	Diags    []Diagnostic
	Errors   int
	Warnings int

	// Werror turns warnings into errors.
	Werror bool
}

func (l *List) Report(d Diagnostic) {
	if d.Severity == Warning && l.Werror {
		d.Severity = Error
	}
	switch d.Severity {
	case Error:
		l.Errors++
	case Warning:
		l.Warnings++
	}
	l.Diags = append(l.Diags, d)
}

// Errorf records an error.
func (l *List) Errorf(r syntax.Range, format string, args ...interface{}) {
	l.Report(Diagnostic{r, Error, fmt.Sprintf(format, args...)})
}

// Warnf records a warning.
func (l *List) Warnf(r syntax.Range, format string, args ...interface{}) {
	l.Report(Diagnostic{r, Warning, fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error was recorded.
func (l *List) HasErrors() bool { return l.Errors > 0 }

// Messages returns the messages of the given severity, in order.
func (l *List) Messages(sev Severity) []string {
	var res []string
	for _, d := range l.Diags {
		if d.Severity == sev {
			res = append(res, d.Msg)
		}
	}
	return res
}

// Err returns the recorded errors as an ErrorList sorted by position,
// or nil if there were none.
func (l *List) Err() error {
	if l.Errors == 0 {
		return nil
	}
	var errs ErrorList
	for _, d := range l.Diags {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	sort.Stable(errs)
	return errs
}

// An ErrorList is a non-empty list of error diagnostics.
type ErrorList []Diagnostic

func (e ErrorList) Len() int           { return len(e) }
func (e ErrorList) Swap(i, j int)      { e[i], e[j] = e[j], e[i] }
func (e ErrorList) Less(i, j int) bool { return e[i].Range.Before(e[j].Range) }

func (e ErrorList) Error() string {
	if len(e) == 1 {
		return e[0].String()
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s (and %d more errors)", e[0], len(e)-1)
	return buf.String()
}
