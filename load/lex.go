// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"fmt"
	"strings"
	"text/scanner"
)

type tokenKind uint8

const (
	tEOF tokenKind = iota
	tIdent
	tInt
	tReal
	tString
	tChar
	tOp
)

var tokenNames = [...]string{
	tEOF:    "end of text",
	tIdent:  "identifier",
	tInt:    "integer literal",
	tReal:   "real literal",
	tString: "string literal",
	tChar:   "character literal",
	tOp:     "operator",
}

func (k tokenKind) String() string { return tokenNames[k] }

// A token is a lexeme of an embedded type, expression or statement.
// Line and col locate its first rune within the text, both 1-based.
type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) String() string {
	if t.kind == tEOF {
		return t.kind.String()
	}
	return fmt.Sprintf("%q", t.text)
}

// operators lists the multi-rune operators.
var operators = []string{
	"<<=", ">>=", "...",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

// lex splits src into tokens. A '#' starts a comment that runs to
// the end of the line. The final token is always tEOF.
func lex(src string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings | scanner.ScanChars
	var lexErr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if lexErr == nil {
			lexErr = lexError{s.Pos().Line, s.Pos().Column, msg}
		}
	}

	var toks []token
	for {
		r := s.Scan()
		if lexErr != nil {
			return nil, lexErr
		}
		line, col := s.Position.Line, s.Position.Column
		switch r {
		case scanner.EOF:
			pos := s.Pos()
			return append(toks, token{kind: tEOF, line: pos.Line, col: pos.Column}), nil
		case scanner.Ident:
			toks = append(toks, token{tIdent, s.TokenText(), line, col})
		case scanner.Int:
			toks = append(toks, token{tInt, s.TokenText(), line, col})
		case scanner.Float:
			toks = append(toks, token{tReal, s.TokenText(), line, col})
		case scanner.String, scanner.RawString:
			toks = append(toks, token{tString, s.TokenText(), line, col})
		case scanner.Char:
			toks = append(toks, token{tChar, s.TokenText(), line, col})
		case '#':
			for r := s.Peek(); r != '\n' && r != scanner.EOF; r = s.Peek() {
				s.Next()
			}
		default:
			op := string(r)
			for isOperatorPrefix(op + string(s.Peek())) {
				op += string(s.Next())
			}
			toks = append(toks, token{tOp, op, line, col})
		}
	}
}

type lexError struct {
	line, col int
	msg       string
}

func (e lexError) Error() string { return e.msg }

func isOperatorPrefix(text string) bool {
	for _, op := range operators {
		if strings.HasPrefix(op, text) {
			return true
		}
	}
	return false
}
