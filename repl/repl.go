// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides an interactive explorer over a checked unit.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// Each input line is a command followed by arguments:
//
//	lookup NAME        print the declaration of a symbol
//	members [NAME]     list the names declared in a symbol's scope
//	body NAME          print the lowered body of a method
//	call NAME [ARG...] evaluate a static method
//	diag               print the diagnostics of the unit
//	help               list the commands
//	quit               leave the explorer
package repl // import "go.rcsema.net/repl"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"go.rcsema.net/diag"
	"go.rcsema.net/eval"
	"go.rcsema.net/syntax"
)

var interrupted = make(chan os.Signal, 1)

// An Explorer executes commands against a checked unit.
type Explorer struct {
	Ctx     *syntax.CodeContext
	Diags   *diag.List
	Printer *diag.Printer

	// MaxSteps limits each evaluation started by "call".
	MaxSteps uint64
}

// errQuit is returned by Exec for the quit command.
var errQuit = errors.New("quit")

// IsQuit reports whether err is the result of the quit command.
func IsQuit(err error) bool { return err == errQuit }

// REPL executes a read, execute, print loop over the explorer's unit.
//
// A SIGINT (Control-C) during a "call" command cancels the evaluation.
func REPL(x *Explorer) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.New("rcsema> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, x); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, executes, and prints one command.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed or the user quit. Command errors are printed.
func rep(rl *readline.Instance, x *Explorer) error {
	line, err := rl.Readline()
	if err != nil {
		return err
	}
	if err := x.Exec(rl.Stdout(), line); err != nil {
		if err == errQuit {
			return io.EOF
		}
		PrintError(err)
	}
	return nil
}

// Exec executes one command line, writing its output to w.
// The quit command yields a non-nil error that IsQuit recognizes.
func (x *Explorer) Exec(w io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "lookup":
		if len(args) != 1 {
			return fmt.Errorf("usage: lookup NAME")
		}
		sym, err := x.lookup(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s (%s)\n", kind(sym), syntax.FullName(sym), sym.Span())
		return syntax.Outline(w, sym)

	case "members":
		var sym syntax.Symbol = x.Ctx.Root
		if len(args) > 0 {
			var err error
			if sym, err = x.lookup(args[0]); err != nil {
				return err
			}
		}
		scope := sym.Sym().Scope()
		if scope == nil {
			return fmt.Errorf("%s has no members", syntax.FullName(sym))
		}
		var names []string
		scope.Each(func(name string, member syntax.Symbol) {
			names = append(names, fmt.Sprintf("%s %s", name, kind(member)))
		})
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
		return nil

	case "body":
		if len(args) != 1 {
			return fmt.Errorf("usage: body NAME")
		}
		m, err := x.method(args[0])
		if err != nil {
			return err
		}
		if m.Body == nil {
			return fmt.Errorf("%s has no body", syntax.FullName(m))
		}
		return syntax.Outline(w, m.Body)

	case "call":
		if len(args) < 1 {
			return fmt.Errorf("usage: call NAME [ARG...]")
		}
		m, err := x.method(args[0])
		if err != nil {
			return err
		}
		vals := make([]eval.Value, len(args)-1)
		for i, a := range args[1:] {
			if vals[i], err = parseValue(a); err != nil {
				return err
			}
		}
		thread := &eval.Thread{Name: "call " + args[0], MaxSteps: x.MaxSteps}
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-interrupted:
				thread.Cancel("interrupted")
			case <-done:
			}
		}()
		v, err := eval.Call(thread, m, vals...)
		if err != nil {
			return err
		}
		if v != eval.Null {
			fmt.Fprintln(w, v)
		}
		return nil

	case "diag":
		if x.Diags == nil {
			return nil
		}
		p := x.Printer
		if p == nil {
			p = new(diag.Printer)
		}
		if err := p.PrintAll(w, x.Diags.Diags); err != nil {
			return err
		}
		fmt.Fprintf(w, "%d errors, %d warnings\n", x.Diags.Errors, x.Diags.Warnings)
		return nil

	case "help":
		fmt.Fprint(w, help)
		return nil

	case "quit", "exit":
		return errQuit
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

const help = `lookup NAME        print the declaration of a symbol
members [NAME]     list the names declared in a symbol's scope
body NAME          print the lowered body of a method
call NAME [ARG...] evaluate a static method
diag               print the diagnostics of the unit
help               list the commands
quit               leave the explorer
`

// lookup resolves a dotted name from the root namespace.
func (x *Explorer) lookup(name string) (syntax.Symbol, error) {
	var sym syntax.Symbol = x.Ctx.Root
	for _, part := range strings.Split(name, ".") {
		scope := sym.Sym().Scope()
		if scope == nil {
			return nil, fmt.Errorf("%s has no members", syntax.FullName(sym))
		}
		next := scope.LookupLocal(part)
		if next == nil {
			return nil, fmt.Errorf("undefined: %s", name)
		}
		sym = next
	}
	return sym, nil
}

func (x *Explorer) method(name string) (*syntax.Method, error) {
	sym, err := x.lookup(name)
	if err != nil {
		return nil, err
	}
	m, ok := sym.(*syntax.Method)
	if !ok {
		return nil, fmt.Errorf("%s is a %s, not a method", name, kind(sym))
	}
	return m, nil
}

// kind returns the lower-case name of the symbol's kind.
func kind(sym syntax.Symbol) string {
	k := fmt.Sprintf("%T", sym)
	return strings.ToLower(k[strings.LastIndex(k, ".")+1:])
}

// parseValue parses a command argument: an integer, a floating-point
// number, true, false, null, or a double-quoted string.
func parseValue(s string) (eval.Value, error) {
	switch s {
	case "true":
		return eval.True, nil
	case "false":
		return eval.False, nil
	case "null":
		return eval.Null, nil
	}
	if strings.HasPrefix(s, `"`) {
		u, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("invalid string argument %s", s)
		}
		return eval.String(u), nil
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return eval.Int(i), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return eval.Float(f), nil
	}
	return nil, fmt.Errorf("invalid argument %s", s)
}

// PrintError prints the error to stderr,
// or its backtrace if it is an evaluation error.
func PrintError(err error) {
	var evalErr *eval.EvalError
	if errors.As(err, &evalErr) {
		fmt.Fprintln(os.Stderr, evalErr.Backtrace())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
