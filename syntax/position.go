// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position { return Position{file, line, col} }

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

func (p Position) isBefore(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// A Range is the half-open source extent of a node.
// End may be the zero Position when only the start is known.
type Range struct {
	Begin, End Position
}

// MakeRange returns the range starting and ending at pos.
func MakeRange(pos Position) Range { return Range{pos, pos} }

// IsValid reports whether the range has a valid start.
func (r Range) IsValid() bool { return r.Begin.IsValid() }

func (r Range) String() string { return r.Begin.String() }

// Before reports whether r starts before s.
func (r Range) Before(s Range) bool { return r.Begin.isBefore(s.Begin) }
